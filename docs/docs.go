// Package docs registers the swagger spec served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/polls": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["polls"],
                "summary": "Create a poll",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "validation failed"},
                    "401": {"description": "unauthorized"}
                }
            },
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["polls"],
                "summary": "List own polls with options and vote counts",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/polls/{id}": {
            "get": {
                "tags": ["polls"],
                "summary": "Get a poll with options and vote counts",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "poll not found"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["polls"],
                "summary": "Delete a poll (owner only, cascades)",
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "not owner"},
                    "404": {"description": "poll not found"}
                }
            }
        },
        "/polls/{id}/vote": {
            "post": {
                "tags": ["votes"],
                "summary": "Cast a vote (anonymous allowed)",
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "option not in poll"},
                    "409": {"description": "already voted"},
                    "429": {"description": "rate limited"}
                }
            }
        },
        "/polls/{id}/results": {
            "get": {
                "tags": ["polls"],
                "summary": "Per-option vote counts, recomputed live",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Pollshare API",
	Description:      "Poll creation, sharing and voting with anonymous voters allowed",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
