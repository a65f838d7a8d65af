package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanzikit/zhconv/pkg/converter"
)

func sampleReport() converter.Report {
	return converter.Report{
		Summary: converter.ReportSummary{
			InputCount: 2,
			Succeeded:  1,
			Failed:     1,
			Config:     "s2t",
			DurationMs: 12,
		},
		Items: []converter.ItemResult{
			{Path: "/in/a.txt", OutputPath: "/out/a.txt", Kind: converter.KindText, Status: converter.StatusSuccess},
			{Path: "/in/b.docx", Kind: converter.KindContainer, Status: converter.StatusFailed, Error: "corrupt or unreadable archive"},
		},
	}
}

func TestPrintReportText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintReport(&buf, sampleReport(), converter.OutputFormatText))
	out := buf.String()

	assert.Contains(t, out, "ok\t/in/a.txt -> /out/a.txt")
	assert.Contains(t, out, "fail\t/in/b.docx: corrupt or unreadable archive")
	assert.Contains(t, out, "s2t: 1 converted, 1 failed of 2")
}

func TestPrintReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintReport(&buf, sampleReport(), converter.OutputFormatJSON))

	var decoded converter.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "s2t", decoded.Summary.Config)
	require.Len(t, decoded.Items, 2)
	assert.Equal(t, converter.StatusFailed, decoded.Items[1].Status)
}
