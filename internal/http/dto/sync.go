package dto

import (
	"time"

	"github.com/cesargomez89/songbook/internal/reconcile"
)

type SyncStatusResponse struct {
	LastReconciled *time.Time `json:"last_reconciled,omitempty"`
}

type SyncResponse struct {
	*reconcile.Summary
}
