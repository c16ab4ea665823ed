// Package heosweb — swaggo annotation stubs.
// Each function below is a documentation stub only; the real handler logic
// lives in Server's methods in server.go. Run `swag init` from the project
// root to regenerate ./docs/ from these annotations.
package heosweb

// volumeRequest is the body for POST /api/players/{id}/volume.
type volumeRequest struct {
	Level int `json:"level" example:"35"`
}

// errorResponse is the body echo.NewHTTPError renders for a failed request.
type errorResponse struct {
	Message string `json:"message" example:"unknown player id"`
}

// swagSnapshot is a documentation stub for GET /api/snapshot.
//
//	@Summary	Fleet snapshot
//	@Description	Returns a plain-value copy of every known player, group and
//	source, plus the signed-in account status. 503 until the connection has
//	reached the Stateful transition.
//	@Tags		fleet
//	@Produce	json
//	@Success	200	{object}	state.FleetSnapshot
//	@Failure	503	{object}	errorResponse
//	@Router		/api/snapshot [get]
func swagSnapshot() {}

// swagSetVolume is a documentation stub for POST /api/players/{id}/volume.
//
//	@Summary	Set a player's volume
//	@Description	Issues SetVolume and returns once the device acknowledges
//	it; the fleet snapshot is updated separately by the player_volume_changed
//	event, not synchronously by this call.
//	@Tags		fleet
//	@Accept		json
//	@Produce	json
//	@Param		id		path	string			true	"Player ID"
//	@Param		body	body	volumeRequest	true	"Target volume level"
//	@Success	204
//	@Failure	400	{object}	errorResponse
//	@Failure	404	{object}	errorResponse
//	@Failure	502	{object}	errorResponse
//	@Failure	503	{object}	errorResponse
//	@Router		/api/players/{id}/volume [post]
func swagSetVolume() {}

// swagEvents is a documentation stub for GET /api/events.
//
//	@Summary	WebSocket — live event stream
//	@Description	Upgrades to a WebSocket and relays every fleet event as one
//	JSON frame per event, until the client disconnects. When its send queue
//	is full, new events are dropped for that client and the connection stays
//	open, so a slow client never backpressures the rest of the fleet.
//	@Tags		fleet
//	@Success	101	{string}	string	"WebSocket upgrade"
//	@Router		/api/events [get]
func swagEvents() {}
