// Package docs holds the OpenAPI document served under /swagger.
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
        "/health": {
            "get": {
                "description": "Check if the service is running",
                "produces": ["text/plain"],
                "tags": ["health"],
                "summary": "Health check endpoint",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}}
                }
            }
        },
        "/ready": {
            "get": {
                "description": "Check if the service is ready to serve requests (includes store connectivity)",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check endpoint",
                "responses": {
                    "200": {"description": "Service is ready"},
                    "503": {"description": "Service is not ready", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/shorten": {
            "post": {
                "description": "Create a shortened URL from an http or https URL, optionally expiring after ttlDays",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["urls"],
                "summary": "Create a short URL",
                "parameters": [
                    {
                        "description": "URL to shorten",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/application.ShortenRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Successfully created short URL", "schema": {"$ref": "#/definitions/application.ShortenResponse"}},
                    "400": {"description": "Invalid request or validation error", "schema": {"$ref": "#/definitions/http.ValidationErrorResponse"}},
                    "503": {"description": "No unique short code could be generated", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/urls/{shortCode}": {
            "get": {
                "description": "Return the stored record, including the click count, without counting a visit",
                "produces": ["application/json"],
                "tags": ["urls"],
                "summary": "Short URL statistics",
                "parameters": [
                    {"type": "string", "description": "Short code", "name": "shortCode", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Stored record", "schema": {"$ref": "#/definitions/domain.URL"}},
                    "404": {"description": "Short URL not found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/{shortCode}": {
            "get": {
                "description": "Redirect to the original URL using the short code and count the visit",
                "tags": ["urls"],
                "summary": "Redirect to original URL",
                "parameters": [
                    {"type": "string", "description": "Short code", "name": "shortCode", "in": "path", "required": true}
                ],
                "responses": {
                    "302": {"description": "Redirect to original URL"},
                    "404": {"description": "Short URL not found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "410": {"description": "Short URL has expired", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "application.ShortenRequest": {
            "type": "object",
            "required": ["originalUrl"],
            "properties": {
                "originalUrl": {"type": "string"},
                "ttlDays": {"type": "integer", "maximum": 1000000}
            }
        },
        "application.ShortenResponse": {
            "type": "object",
            "properties": {
                "expiresAt": {"type": "string"},
                "originalUrl": {"type": "string"},
                "shortCode": {"type": "string"},
                "shortUrl": {"type": "string"}
            }
        },
        "domain.URL": {
            "type": "object",
            "properties": {
                "clicks": {"type": "integer"},
                "createdAt": {"type": "string"},
                "expiresAt": {"type": "string"},
                "id": {"type": "integer"},
                "originalUrl": {"type": "string"},
                "shortCode": {"type": "string"}
            }
        },
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "object", "additionalProperties": {"type": "string"}},
                "timestamp": {"type": "string", "example": "2024-01-31T12:00:00Z"}
            }
        },
        "http.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "details": {"type": "object", "additionalProperties": {"type": "string"}},
                "error": {"type": "object", "additionalProperties": {"type": "string"}},
                "timestamp": {"type": "string", "example": "2024-01-31T12:00:00Z"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Wren URL Shortener API",
	Description:      "Shortens http and https URLs, redirects short codes and counts visits",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
