// Package docs registers the OpenAPI document served at /swagger/*.
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
        "/users/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "email": {"type": "string"},
                                "password": {"type": "string"}
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "token issued",
                        "schema": {
                            "type": "object",
                            "properties": {"token": {"type": "string"}}
                        }
                    },
                    "400": {"description": "missing fields"},
                    "401": {"description": "wrong password or inactive account"},
                    "404": {"description": "unknown email"}
                }
            }
        },
        "/users": {
            "post": {
                "tags": ["users"],
                "summary": "Register a new user",
                "responses": {
                    "201": {"description": "created"},
                    "400": {"description": "validation failed"},
                    "409": {"description": "email already in use"}
                }
            },
            "get": {
                "tags": ["users"],
                "summary": "List users (admin only)",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "page of users"},
                    "401": {"description": "unauthenticated"},
                    "403": {"description": "role not allowed"}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["users"],
                "summary": "Get a user by id",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "user"},
                    "404": {"description": "unknown user"}
                }
            },
            "put": {
                "tags": ["users"],
                "summary": "Update a user (self or admin)",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "updated user"},
                    "403": {"description": "not self and not admin"},
                    "409": {"description": "email already in use"}
                }
            },
            "delete": {
                "tags": ["users"],
                "summary": "Soft-delete a user (admin only)",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "user deactivated"},
                    "404": {"description": "unknown user"}
                }
            }
        },
        "/users/{id}/audit": {
            "get": {
                "tags": ["users"],
                "summary": "Get a user's audit trail (admin only)",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "newest audit events first"}
                }
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

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Perlametro Users Service API",
	Description:      "User account management and password-authenticated JWT issuance.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
