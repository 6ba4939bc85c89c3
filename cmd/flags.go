package cmd

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/pders01/visreg/internal/models"
)

// approvalIDsValue collects page:alias approval IDs from a repeatable,
// comma separated flag
type approvalIDsValue struct {
	ids *[]models.ApprovalID
}

var _ pflag.Value = (*approvalIDsValue)(nil)

func newApprovalIDsValue(ids *[]models.ApprovalID) *approvalIDsValue {
	return &approvalIDsValue{ids: ids}
}

func (v *approvalIDsValue) Set(raw string) error {
	ids, err := models.ParseApprovalIDs(raw)
	if err != nil {
		return err
	}
	*v.ids = append(*v.ids, ids...)
	return nil
}

func (v *approvalIDsValue) String() string {
	if v.ids == nil {
		return ""
	}
	parts := make([]string, len(*v.ids))
	for i, id := range *v.ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

func (v *approvalIDsValue) Type() string {
	return "page:alias"
}
