package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/jackzampolin/bookmark/internal/resolve"
)

// chain builds a resolution chain writing its trail to status.
func (a *app) chain(mode resolve.Mode, status io.Writer) *resolve.Chain {
	cfg := a.config.Get()
	order := cfg.Sources.TOCOrder
	if mode == resolve.ModeMetadata {
		order = cfg.Sources.InfoOrder
	}
	return resolve.NewChain(resolve.Config{
		Sources: a.sources.Ordered(order),
		Status:  status,
		Logger:  a.logger,
	})
}

// explainNotFound prints what to try next when the chain came up empty.
func explainNotFound(w io.Writer, err error) {
	var nf *resolve.NotFoundError
	if errors.As(err, &nf) {
		fmt.Fprintln(w, nf.Guidance())
	}
}
