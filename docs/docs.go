// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with `swag init -g cmd/server/main.go` after changing handler
// annotations.
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
        "/auth/signup": {"post": {"tags": ["auth"], "summary": "Register or re-request a confirmation code", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/auth/token": {"post": {"tags": ["auth"], "summary": "Exchange a confirmation code for an access token", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/users": {
            "get": {"tags": ["users"], "summary": "List users", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}},
            "post": {"tags": ["users"], "summary": "Create a user", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/users/me": {
            "get": {"tags": ["users"], "summary": "Get the caller's profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "patch": {"tags": ["users"], "summary": "Update the caller's profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/users/{username}": {
            "get": {"tags": ["users"], "summary": "Get a user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["users"], "summary": "Update a user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "delete": {"tags": ["users"], "summary": "Delete a user", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}
        },
        "/categories": {
            "get": {"tags": ["categories"], "summary": "List categories", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["categories"], "summary": "Create a category", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/categories/{slug}": {"delete": {"tags": ["categories"], "summary": "Delete a category", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}},
        "/genres": {
            "get": {"tags": ["genres"], "summary": "List genres", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["genres"], "summary": "Create a genre", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/genres/{slug}": {"delete": {"tags": ["genres"], "summary": "Delete a genre", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}},
        "/titles": {
            "get": {"tags": ["titles"], "summary": "List titles with their rating", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["titles"], "summary": "Create a title", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/titles/{title_id}": {
            "get": {"tags": ["titles"], "summary": "Get a title", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["titles"], "summary": "Update a title", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["titles"], "summary": "Delete a title", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}
        },
        "/titles/{title_id}/reviews": {
            "get": {"tags": ["reviews"], "summary": "List a title's reviews", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["reviews"], "summary": "Review a title", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/titles/{title_id}/reviews/{review_id}": {
            "get": {"tags": ["reviews"], "summary": "Get a review", "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["reviews"], "summary": "Update a review", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"tags": ["reviews"], "summary": "Delete a review", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}
        },
        "/titles/{title_id}/reviews/{review_id}/comments": {
            "get": {"tags": ["comments"], "summary": "List a review's comments", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["comments"], "summary": "Comment on a review", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/titles/{title_id}/reviews/{review_id}/comments/{comment_id}": {
            "get": {"tags": ["comments"], "summary": "Get a comment", "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["comments"], "summary": "Edit a comment", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"tags": ["comments"], "summary": "Delete a comment", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "ReviewHub API",
	Description:      "Reviews and ratings of creative works with categories, genres, comments and role-based moderation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
