package commands

import (
	"github.com/leapstack-labs/primitivedb/internal/cli/output"
	"github.com/leapstack-labs/primitivedb/internal/engine"
)

// renderResult prints an engine result in the renderer's mode.
func renderResult(r *output.Renderer, res *engine.Result) error {
	switch res.Kind {
	case engine.ResultRecords:
		return r.RenderRecords(res.Columns, res.Records)
	case engine.ResultTables:
		return r.RenderTables(res.Tables)
	case engine.ResultInfo:
		return r.RenderTableInfo(res.Info)
	default:
		r.Message(res.Message)
		return nil
	}
}
