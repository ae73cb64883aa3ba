package apperr

import (
	"net/http"

	"github.com/aquamarinepk/aqm"
)

// Respond writes the error response for err. Unknown errors are logged
// and reported as 500 without leaking their text.
func Respond(w http.ResponseWriter, log aqm.Logger, err error) {
	if !Is(err) {
		log.Errorf("unexpected error: %v", err)
	} else {
		log.Debug("request rejected", "error", err)
	}
	aqm.RespondError(w, Status(err), Message(err))
}
