// Package storefront registers the Swagger document served at /swagger/.
package storefront

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/storefront"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/auth/register": {
            "post": {
                "description": "Creates a USER account. Registration never grants ADMIN.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Register",
                "parameters": [
                    {"description": "name, email, password", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/storesdk.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/storesdk.MessageResponse"}},
                    "400": {"description": "Validation failed or user already exists", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "description": "Verifies the credentials and sets the HTTP-only accessToken cookie.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "email, password", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/storesdk.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/storesdk.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "401": {"description": "Invalid Credentials", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/v1/auth/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/storesdk.MessageResponse"}}
                }
            }
        },
        "/api/v1/auth/me": {
            "get": {
                "security": [{"CookieAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/storesdk.MeResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/v1/users/all": {
            "get": {
                "security": [{"CookieAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/storesdk.UserListResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/v1/users/{id}": {
            "get": {
                "security": [{"CookieAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Get user",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/storesdk.UserResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/v1/users/edit/{id}": {
            "patch": {
                "security": [{"CookieAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Update user",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "name, role", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/storesdk.UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/storesdk.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/v1/users/delete/{id}": {
            "delete": {
                "security": [{"CookieAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Delete user",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/storesdk.MessageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/v1/products/new": {
            "post": {
                "security": [{"CookieAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "Create product",
                "parameters": [
                    {"description": "title, content, price", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/storesdk.CreateProductRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/storesdk.ProductResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/v1/products/all": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "List products",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/storesdk.ProductResponse"}}}
                }
            }
        },
        "/api/v1/products/all/{ownerId}": {
            "get": {
                "security": [{"CookieAuth": []}],
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "List products by owner",
                "parameters": [
                    {"type": "string", "description": "Owner user ID", "name": "ownerId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/storesdk.ProductResponse"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/v1/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "Get product",
                "parameters": [
                    {"type": "string", "description": "Product ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/storesdk.ProductResponse"}},
                    "404": {"description": "Product not found", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/v1/products/edit/{id}": {
            "patch": {
                "security": [{"CookieAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "Update product",
                "parameters": [
                    {"type": "string", "description": "Product ID", "name": "id", "in": "path", "required": true},
                    {"description": "title, content, price", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/storesdk.UpdateProductRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/storesdk.ProductResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/v1/products/delete/{id}": {
            "delete": {
                "security": [{"CookieAuth": []}],
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "Delete product",
                "parameters": [
                    {"type": "string", "description": "Product ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/storesdk.MessageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/health_check": {
            "get": {
                "description": "Always 200 while the process is serving.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/storesdk.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Pings the database; 503 when it is unreachable.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/storesdk.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/storesdk.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "httpx.APIError": {
            "type": "object",
            "properties": {
                "statusCode": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "httpx.ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/httpx.APIError"}
            }
        },
        "storesdk.RegisterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "storesdk.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "storesdk.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "storesdk.MeResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "issuedAt": {"type": "string"},
                "expiresAt": {"type": "string"}
            }
        },
        "storesdk.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "createdAt": {"type": "string", "example": "17-10-2026"},
                "updatedAt": {"type": "string", "example": "17-10-2026"}
            }
        },
        "storesdk.ProductRef": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "storesdk.UserSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"},
                "products": {"type": "array", "items": {"$ref": "#/definitions/storesdk.ProductRef"}}
            }
        },
        "storesdk.UserListResponse": {
            "type": "object",
            "properties": {
                "users": {"type": "array", "items": {"$ref": "#/definitions/storesdk.UserSummary"}}
            }
        },
        "storesdk.UpdateUserRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["USER", "ADMIN"]}
            }
        },
        "storesdk.Owner": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "storesdk.ProductResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "price": {"type": "number"},
                "ownerId": {"type": "string"},
                "owner": {"$ref": "#/definitions/storesdk.Owner"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "storesdk.CreateProductRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "content": {"type": "string"},
                "price": {"type": "number"}
            }
        },
        "storesdk.UpdateProductRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "content": {"type": "string"},
                "price": {"type": "number"}
            }
        },
        "storesdk.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"}
            }
        },
        "storesdk.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"},
                "checks": {"$ref": "#/definitions/storesdk.HealthChecks"}
            }
        }
    },
    "securityDefinitions": {
        "CookieAuth": {
            "description": "HMAC signed session token set by login.",
            "type": "apiKey",
            "name": "accessToken",
            "in": "cookie"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8081",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Storefront API",
	Description:      "User and product management with cookie based sessions.\n\nSessions are HMAC signed JWTs carried in the HTTP-only accessToken cookie.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
