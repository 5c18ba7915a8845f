package ingest

import "time"

type (
	// StationRequest is the payload a timing station sends on the ingest
	// subject. Token identifies (and authorizes) the timing point.
	StationRequest struct {
		Token         string    `json:"token"`
		ClientVersion string    `json:"clientVersion"`
		Timestamp     time.Time `json:"timestamp"`
		ManualEntry   bool      `json:"manualEntry"`
		EnteredBy     string    `json:"enteredBy,omitempty"`
	}

	// StationReply acknowledges an ingest request.
	StationReply struct {
		Ok       bool   `json:"ok"`
		TimingID int    `json:"timingId,omitempty"`
		Error    string `json:"error,omitempty"`
	}
)
