package reportstatus

import (
	"context"

	"github.com/famexio/famex/internal/export"
	"github.com/famexio/famex/internal/storages"
)

const (
	DoneStatusName            = "done"
	UnknownOrFailedStatusName = "unknown or failed"
)

// GetReportStatusAndMetadata derives the status of a report run directory
// from its metadata.json: present and parsable means done, anything else is
// unknown-or-failed (the run was interrupted before the metadata write or
// the directory is foreign).
func GetReportStatusAndMetadata(ctx context.Context, st storages.Storager) (string, *export.Metadata, error) {
	stat, err := st.Stat(export.MetadataJsonFileName)
	if err != nil {
		return "", nil, err
	}
	if !stat.Exist {
		return UnknownOrFailedStatusName, nil, nil
	}
	md, err := export.GetMetadata(ctx, st)
	if err != nil {
		return UnknownOrFailedStatusName, nil, nil
	}
	return DoneStatusName, md, nil
}
