// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package api

import (
	"github.com/swaggo/swag"
)

// openAPITemplate documents the public routes for the Swagger UI at /swagger/.
const openAPITemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "{{.Title}}",
    "description": "{{escape .Description}}",
    "version": "{{.Version}}",
    "license": {"name": "AGPL-3.0-or-later"}
  },
  "basePath": "{{.BasePath}}",
  "securityDefinitions": {
    "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
  },
  "paths": {
    "/users/{userID}/feed": {
      "get": {
        "summary": "Ranked feed page for a learner",
        "produces": ["application/json"],
        "parameters": [
          {"name": "userID", "in": "path", "required": true, "type": "string"},
          {"name": "limit", "in": "query", "type": "integer", "description": "Page size; 0 uses the default, values above the maximum are capped"},
          {"name": "offset", "in": "query", "type": "integer"},
          {"name": "feedback", "in": "query", "type": "string", "enum": ["too_easy", "too_hard", "perfect"]},
          {"name": "current", "in": "query", "type": "string", "description": "Content the learner just finished"},
          {"name": "exclude", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "csv"},
          {"name": "cache", "in": "query", "type": "boolean", "default": true},
          {"name": "explain", "in": "query", "type": "boolean", "default": false}
        ],
        "responses": {
          "200": {"description": "Feed page"},
          "400": {"description": "Invalid parameters"},
          "404": {"description": "Unknown learner"},
          "503": {"description": "Store unavailable"}
        }
      }
    },
    "/users/{userID}/feed/next": {
      "get": {
        "summary": "Single best next item, or null",
        "produces": ["application/json"],
        "parameters": [
          {"name": "userID", "in": "path", "required": true, "type": "string"},
          {"name": "feedback", "in": "query", "type": "string", "enum": ["too_easy", "too_hard", "perfect"]},
          {"name": "current", "in": "query", "type": "string"},
          {"name": "exclude", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "csv"}
        ],
        "responses": {
          "200": {"description": "Next item or null"},
          "400": {"description": "Invalid parameters"},
          "404": {"description": "Unknown learner"}
        }
      }
    },
    "/users/{userID}/feed/cache": {
      "delete": {
        "summary": "Drop the learner's cached feed",
        "parameters": [{"name": "userID", "in": "path", "required": true, "type": "string"}],
        "responses": {"200": {"description": "Invalidated"}, "503": {"description": "Cache unavailable"}}
      }
    },
    "/me/feed": {
      "get": {
        "summary": "Feed page for the authenticated learner",
        "security": [{"BearerAuth": []}],
        "responses": {"200": {"description": "Feed page"}, "401": {"description": "Missing or invalid token"}}
      }
    },
    "/me/feed/next": {
      "get": {
        "summary": "Next item for the authenticated learner",
        "security": [{"BearerAuth": []}],
        "responses": {"200": {"description": "Next item or null"}, "401": {"description": "Missing or invalid token"}}
      }
    }
  }
}`

// SwaggerInfo is the registered API description.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/api/v1",
	Title:            "Hablafeed API",
	Description:      "Adaptive Spanish learning content feed.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  openAPITemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

//nolint:gochecknoinits // swag discovers documents through its registry
func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
