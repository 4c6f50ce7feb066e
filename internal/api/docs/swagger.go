package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// IdentityData represents one enrolled identity
type IdentityData struct {
	Name        string `json:"name" example:"alice"`
	AccessStart string `json:"access_start" example:"09:00"`
	AccessEnd   string `json:"access_end" example:"17:00"`
	Thumbnail   string `json:"thumbnail,omitempty" example:"data:image/jpeg;base64,..."`
}

// IdentityListResponse is the identity listing payload
type IdentityListResponse struct {
	Identities []IdentityData `json:"identities"`
}

// DecisionData represents one access decision
type DecisionData struct {
	ID            string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name          string  `json:"name" example:"alice"`
	Similarity    float64 `json:"similarity_score" example:"0.87"`
	LivenessScore float64 `json:"liveness_score" example:"0.95"`
	Status        string  `json:"status" example:"VERIFIED"`
	Zone          string  `json:"zone" example:"Main Gate"`
	Timestamp     string  `json:"timestamp" example:"2024-01-01T12:00:00Z"`
}

// FrameResponse is returned for a processed frame
type FrameResponse struct {
	Decisions []DecisionData `json:"decisions"`
}

// EventsResponse is the recent-decisions payload, newest first
type EventsResponse struct {
	Events []DecisionData `json:"events"`
	Count  int            `json:"count" example:"42"`
}

// RegistrationAcceptedResponse acknowledges an enrollment start
type RegistrationAcceptedResponse struct {
	Name   string `json:"name" example:"carol"`
	Status string `json:"status" example:"registering"`
}

// RenamedResponse acknowledges a rename
type RenamedResponse struct {
	Name string `json:"name" example:"alicia"`
}

// AccessWindowResponse acknowledges an access-window update
type AccessWindowResponse struct {
	Name        string `json:"name" example:"alice"`
	AccessStart string `json:"access_start" example:"09:00"`
	AccessEnd   string `json:"access_end" example:"17:00"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// EmptyResponse represents no content (204)
type EmptyResponse struct{}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Facegate API",
		Version:     "v1.0.0",
		Description: "Real-time facial-identity access control: frame ingestion, enrollment workflow, identity management and the live decision feed",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// GET /v1/identities - List identities
		endpoint.New(
			endpoint.GET,
			"/identities",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("List enrolled identities"),
			endpoint.WithDescription("Returns every enrolled identity with its access window and a data-URI thumbnail"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IdentityListResponse{}, "200", "Identities listed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// DELETE /v1/identities/:name
		endpoint.New(
			endpoint.DELETE,
			"/identities/{name}",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Delete an identity"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("name", parameter.Path, parameter.WithDescription("Enrolled identity name")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Identity deleted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "IDENTITY_NOT_FOUND", Message: "Identity not found"}, "404", "Not Found"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// PUT /v1/identities/:name/name
		endpoint.New(
			endpoint.PUT,
			"/identities/{name}/name",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Rename an identity"),
			endpoint.WithDescription("Renames an enrolled identity; fails if the new name is already taken"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("name", parameter.Path, parameter.WithDescription("Current identity name")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RenamedResponse{}, "200", "Identity renamed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "new_name is required"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "IDENTITY_NOT_FOUND", Message: "Identity not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "IDENTITY_EXISTS", Message: "An identity with this name already exists"}, "409", "Conflict"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// PUT /v1/identities/:name/access-window
		endpoint.New(
			endpoint.PUT,
			"/identities/{name}/access-window",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Update an identity's access window"),
			endpoint.WithDescription("Sets the daily time-of-day range in which the identity is authorized. Bounds are zero-padded HH:MM, inclusive; a window with start > end never authorizes"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("name", parameter.Path, parameter.WithDescription("Enrolled identity name")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AccessWindowResponse{}, "200", "Access window updated"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_ACCESS_WINDOW", Message: "Access window bounds must be zero-padded HH:MM"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "IDENTITY_NOT_FOUND", Message: "Identity not found"}, "404", "Not Found"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /v1/identities/:name/thumbnail
		endpoint.New(
			endpoint.GET,
			"/identities/{name}/thumbnail",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Get an identity's enrollment thumbnail"),
			endpoint.WithProduce([]mime.MIME{mime.MIME("image/jpeg")}),
			endpoint.WithParams(
				parameter.StrParam("name", parameter.Path, parameter.WithDescription("Enrolled identity name")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "200", "Thumbnail JPEG"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NOT_FOUND", Message: "Resource not found"}, "404", "Not Found"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// POST /v1/registrations
		endpoint.New(
			endpoint.POST,
			"/registrations",
			endpoint.WithTags("Registration"),
			endpoint.WithSummary("Start an enrollment session"),
			endpoint.WithDescription("Begins the countdown/capture workflow for a new identity. Progress and the final result are delivered on the websocket feed; starting while a session is active replaces it"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RegistrationAcceptedResponse{}, "202", "Enrollment session started"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_REQUEST", Message: "Missing or malformed request input"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// POST /v1/frames
		endpoint.New(
			endpoint.POST,
			"/frames",
			endpoint.WithTags("Frames"),
			endpoint.WithSummary("Process one camera frame"),
			endpoint.WithDescription("Accepts a raw JPEG or PNG body, runs detection and matching, and returns the access decisions produced for the frame. During an active enrollment session the frame drives the session instead"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("image/jpeg"), mime.MIME("image/png")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(FrameResponse{}, "200", "Frame processed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Too many requests, slow down"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /v1/events
		endpoint.New(
			endpoint.GET,
			"/events",
			endpoint.WithTags("Events"),
			endpoint.WithSummary("List recent access decisions"),
			endpoint.WithDescription("Returns the retained decision log, newest first, at most 500 entries"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EventsResponse{}, "200", "Recent decisions"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /v1/stream
		endpoint.New(
			endpoint.GET,
			"/stream",
			endpoint.WithTags("Stream"),
			endpoint.WithSummary("Live annotated MJPEG preview"),
			endpoint.WithDescription("Streams the latest camera frame with bounding boxes and name labels as multipart/x-mixed-replace"),
			endpoint.WithProduce([]mime.MIME{mime.MIME("multipart/x-mixed-replace")}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "200", "MJPEG stream"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
