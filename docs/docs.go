// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g runtime/main.go -o docs
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
    "securityDefinitions": {
        "Bearer": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/ping": {"get": {"tags": ["health"], "summary": "Ping", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/metadata": {"get": {"tags": ["platform"], "summary": "Contract metadata", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/init": {"post": {"tags": ["admin"], "summary": "Initialize the ledger", "security": [{"Bearer": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Already initialized"}}}},
        "/api/v1/admin/rate-limit/config": {"put": {"tags": ["admin"], "summary": "Set rate limit config", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/api/v1/admin/reputation/{account}": {"put": {"tags": ["admin"], "summary": "Set reputation", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/override/{account}": {"put": {"tags": ["admin"], "summary": "Set throttle override", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/claims/config": {"put": {"tags": ["admin"], "summary": "Set claim window config", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid config"}}}},
        "/api/v1/admin/claims/{id}/cancel-expired": {"post": {"tags": ["admin"], "summary": "Cancel expired claim", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}, "409": {"description": "Claim not expired"}}}},
        "/api/v1/admin/rewards/tip-received/{account}": {"post": {"tags": ["admin"], "summary": "Reward a received tip", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}, "429": {"description": "XP rate limited"}}}},
        "/api/v1/admin/events": {"get": {"tags": ["admin"], "summary": "List events", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/events/archive": {"post": {"tags": ["admin"], "summary": "Archive events", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}, "503": {"description": "Archive unavailable"}}}},
        "/api/v1/rate-limit/config": {"get": {"tags": ["throttle"], "summary": "Rate limit config", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/rate-limit/status/{account}/{action}": {"get": {"tags": ["throttle"], "summary": "Throttle status", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/rewards/message": {"post": {"tags": ["platform"], "summary": "Reward a message", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}, "429": {"description": "Throttled"}}}},
        "/api/v1/tips": {"post": {"tags": ["platform"], "summary": "Send a tip", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}, "429": {"description": "Throttled"}}}},
        "/api/v1/transfers": {"post": {"tags": ["platform"], "summary": "Transfer tokens", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}, "429": {"description": "Throttled"}}}},
        "/api/v1/claims": {"post": {"tags": ["claims"], "summary": "Create a pending claim", "security": [{"Bearer": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Claims disabled"}}}},
        "/api/v1/claims/config": {"get": {"tags": ["claims"], "summary": "Claim window config", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/claims/{id}": {"get": {"tags": ["claims"], "summary": "Get claim", "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/api/v1/claims/{id}/claim": {"post": {"tags": ["claims"], "summary": "Claim funds", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}, "410": {"description": "Expired"}}}},
        "/api/v1/claims/{id}/cancel": {"post": {"tags": ["claims"], "summary": "Cancel a pending claim", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/claims/recipient/{account}": {"get": {"tags": ["claims"], "summary": "Claims by recipient", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/claims/creator/{account}": {"get": {"tags": ["claims"], "summary": "Claims by creator", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/escrow/{token}": {"get": {"tags": ["claims"], "summary": "Escrow balance", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/treasury": {"get": {"tags": ["platform"], "summary": "Treasury balance", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/treasury/analytics": {"get": {"tags": ["platform"], "summary": "Treasury analytics", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/settings": {"get": {"tags": ["platform"], "summary": "Platform settings", "responses": {"200": {"description": "OK"}, "409": {"description": "Not initialized"}}}},
        "/api/v1/admin/settings/fee": {"put": {"tags": ["admin"], "summary": "Update platform fee (Admin)", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid config"}, "403": {"description": "Forbidden"}}}},
        "/api/v1/admin/settings/admin": {"put": {"tags": ["admin"], "summary": "Update admin (Admin)", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/api/v1/admin/treasury/withdraw": {"post": {"tags": ["admin"], "summary": "Withdraw fees (Admin)", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "422": {"description": "Insufficient treasury balance"}}}},
        "/api/v1/profile/{account}": {"get": {"tags": ["platform"], "summary": "User profile", "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/api/v1/balances/{account}/{token}": {"get": {"tags": ["platform"], "summary": "Token balance", "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Whsper API",
	Description:      "Reputation-scaled throttling, XP rewards and claim escrow.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
