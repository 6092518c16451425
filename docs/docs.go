// Package docs registers the OpenAPI document served under /swagger/.
// Regenerate with: swag init -g cmd/api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/events/{eventID}": {
            "get": {
                "description": "Returns the event with its current confirmed and waitlist counts.",
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Get an event",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "eventID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.GetEventSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/events/{eventID}/participants": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns every participation for the event, cancelled ones included, oldest first, with user display fields and derived confirmed and waitlist counts.",
                "produces": ["application/json"],
                "tags": ["participants"],
                "summary": "List an event's participants",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "eventID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.ListParticipantsSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Registers the authenticated user. The participation is confirmed while seats remain, otherwise it joins the waitlist; message tells which. A previously cancelled participation is reactivated.",
                "produces": ["application/json"],
                "tags": ["participants"],
                "summary": "Register the current user for an event",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "eventID", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/controllers.RegisterSuccessResponse"}},
                    "400": {"description": "error.code: bad_request, already_registered or event_not_open", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Cancels the authenticated user's participation, or another user's when userId is given and the caller owns the event's company. Cancelling a confirmed seat promotes the oldest waitlisted participant.",
                "produces": ["application/json"],
                "tags": ["participants"],
                "summary": "Cancel a participation",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "eventID", "in": "path", "required": true},
                    {"type": "string", "description": "User to cancel (UUID); defaults to the caller", "name": "userId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.CancelSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/users/me/participations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the authenticated user's participations with their events, newest first. Cancelled participations are included.",
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List the current user's participations",
                "parameters": [
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (default 20, max 100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.ListMyParticipationsSuccessResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "helpers.APIError": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "helpers.APIResponse": {
            "type": "object",
            "properties": {"data": {}, "error": {"$ref": "#/definitions/helpers.APIError"}}
        },
        "helpers.PaginationMeta": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "has_next": {"type": "boolean"}
            }
        },
        "domain.Event": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "company_id": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "string", "enum": ["draft", "published"]},
                "date": {"type": "string"},
                "max_participants": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.Participation": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "event_id": {"type": "string"},
                "user_id": {"type": "string"},
                "status": {"type": "string", "enum": ["confirmed", "waitlisted", "cancelled"]},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.ParticipantWithUser": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "event_id": {"type": "string"},
                "user_id": {"type": "string"},
                "status": {"type": "string", "enum": ["confirmed", "waitlisted", "cancelled"]},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "user_name": {"type": "string"},
                "user_email": {"type": "string"},
                "user_image": {"type": "string"}
            }
        },
        "domain.ParticipantCounts": {
            "type": "object",
            "properties": {"confirmed_count": {"type": "integer"}, "waitlist_count": {"type": "integer"}}
        },
        "domain.EventDetail": {
            "type": "object",
            "properties": {
                "event": {"$ref": "#/definitions/domain.Event"},
                "counts": {"$ref": "#/definitions/domain.ParticipantCounts"}
            }
        },
        "domain.RegistrationResult": {
            "type": "object",
            "properties": {
                "participation": {"$ref": "#/definitions/domain.Participation"},
                "waitlisted": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "domain.ParticipationWithEvent": {
            "type": "object",
            "properties": {
                "participation": {"$ref": "#/definitions/domain.Participation"},
                "event": {"$ref": "#/definitions/domain.Event"}
            }
        },
        "controllers.ListParticipantsResponse": {
            "type": "object",
            "properties": {
                "participants": {"type": "array", "items": {"$ref": "#/definitions/domain.ParticipantWithUser"}},
                "confirmed_count": {"type": "integer"},
                "waitlist_count": {"type": "integer"}
            }
        },
        "controllers.ListParticipantsSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.ListParticipantsResponse"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.RegisterSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.RegistrationResult"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.CancelResponse": {
            "type": "object",
            "properties": {"promoted": {"type": "boolean"}}
        },
        "controllers.CancelSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.CancelResponse"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.GetEventSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.EventDetail"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.ListMyParticipationsResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.ParticipationWithEvent"}},
                "pagination": {"$ref": "#/definitions/helpers.PaginationMeta"}
            }
        },
        "controllers.ListMyParticipationsSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.ListMyParticipationsResponse"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Good Place Events API",
	Description:      "Event registration and waitlist management.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
