package reportstatus

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famexio/famex/internal/export"
	"github.com/famexio/famex/internal/storages/memory"
)

func TestGetReportStatusAndMetadata(t *testing.T) {
	ctx := context.Background()

	t.Run("done", func(t *testing.T) {
		st := memory.New("run")
		require.NoError(t, export.WriteMetadata(ctx, st, &export.Metadata{
			ReportId: "r1",
			Document: "Дверь",
			Rows:     3,
		}))

		status, md, err := GetReportStatusAndMetadata(ctx, st)
		require.NoError(t, err)
		assert.Equal(t, DoneStatusName, status)
		require.NotNil(t, md)
		assert.Equal(t, "Дверь", md.Document)
		assert.Equal(t, 3, md.Rows)
	})

	t.Run("missing metadata", func(t *testing.T) {
		st := memory.New("run")

		status, md, err := GetReportStatusAndMetadata(ctx, st)
		require.NoError(t, err)
		assert.Equal(t, UnknownOrFailedStatusName, status)
		assert.Nil(t, md)
	})

	t.Run("broken metadata", func(t *testing.T) {
		st := memory.New("run")
		require.NoError(t, st.PutObject(ctx, export.MetadataJsonFileName, strings.NewReader(`{"reportId": `)))

		status, md, err := GetReportStatusAndMetadata(ctx, st)
		require.NoError(t, err)
		assert.Equal(t, UnknownOrFailedStatusName, status)
		assert.Nil(t, md)
	})
}
