package muxproto

import (
	"io"
	"log/slog"
)

// OutputRouter delivers decoded %output/%extended-output bytes to the
// matching pane's input sink (§4.4, §8 boundary "output referencing unknown
// pane: logged; no write").
type OutputRouter struct {
	log   *slog.Logger
	model *Model
}

// NewOutputRouter creates an OutputRouter bound to model.
func NewOutputRouter(model *Model, log *slog.Logger) *OutputRouter {
	return &OutputRouter{model: model, log: log}
}

// Route writes decoded output bytes to pane paneID's input sink. Unknown or
// tombstoned panes are a model miss: logged and ignored (§7).
func (r *OutputRouter) Route(paneID uint32, decoded []byte) {
	pr, ok := r.model.Pane(paneID)
	if !ok || pr.Tombstoned() {
		if r.log != nil {
			r.log.Warn("output router: unknown pane, dropping output", "pane", paneID)
		}
		return
	}
	sink := pr.Local.InputSink()
	if sink == nil {
		return
	}
	if _, err := writeAll(sink, decoded); err != nil && r.log != nil {
		r.log.Warn("output router: write to pane input sink failed", "pane", paneID, "err", err)
	}
}

func writeAll(w io.Writer, data []byte) (int, error) {
	total := 0
	for total < len(data) {
		n, err := w.Write(data[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
