package service

// Dashboard event types
const (
	EventPopulationUpdate = "population_update"
	EventRecalcComplete   = "recalc_complete"
)

// Broadcaster pushes updates to connected dashboards (avoids import
// cycle with the WebSocket transport)
type Broadcaster interface {
	BroadcastToDashboards(msgType string, payload interface{})
}
