package models

import (
	"strings"

	vrerrors "github.com/pders01/visreg/internal/errors"
)

// ApprovalID names one screenshot in an approval request.
// Wire format: "<htmlFilePath>:<userAgentAlias>".
type ApprovalID struct {
	HTMLFilePath   string `json:"htmlFilePath"`
	UserAgentAlias string `json:"userAgentAlias"`
}

// Key converts the id to a screenshot identity key
func (a ApprovalID) Key() ScreenshotKey {
	return ScreenshotKey{PagePath: a.HTMLFilePath, Alias: a.UserAgentAlias}
}

func (a ApprovalID) String() string {
	return a.HTMLFilePath + ":" + a.UserAgentAlias
}

// ParseApprovalIDs parses a comma-joined list of approval ids.
// Each id is split on its last colon so page paths may contain colons.
func ParseApprovalIDs(raw string) ([]ApprovalID, error) {
	var ids []ApprovalID
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		idx := strings.LastIndex(token, ":")
		if idx <= 0 || idx == len(token)-1 {
			return nil, &vrerrors.ConfigurationError{
				Value:  token,
				Remedy: `Approval ids must look like "<html_file_path>:<user_agent_alias>", e.g. "pages/button.html:desktop_windows_chrome@latest"`,
			}
		}
		ids = append(ids, ApprovalID{
			HTMLFilePath:   token[:idx],
			UserAgentAlias: token[idx+1:],
		})
	}
	return ids, nil
}
