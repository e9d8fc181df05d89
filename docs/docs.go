// Package docs registers the OpenAPI document served under /swagger/.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "SessionCookie": {"type": "apiKey", "name": "session", "in": "header", "description": "HttpOnly cookie set by /login"}
    },
    "paths": {
        "/healthz": {
            "get": {"tags": ["system"], "summary": "Liveness and database check", "responses": {"200": {"description": "OK"}, "503": {"description": "Database unavailable"}}}
        },
        "/signup": {
            "post": {"tags": ["auth"], "summary": "Create an account and start a session",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SignupInput"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Username or email taken"}, "422": {"description": "Validation failed"}}}
        },
        "/login": {
            "post": {"tags": ["auth"], "summary": "Log in with a username or email",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginInput"}}],
                "responses": {"200": {"description": "Session cookie set"}, "401": {"description": "Invalid credentials"}}}
        },
        "/logout": {
            "post": {"tags": ["auth"], "summary": "Clear the session cookie", "responses": {"204": {"description": "No Content"}}}
        },
        "/isAdmin": {
            "get": {"tags": ["auth"], "summary": "Report whether the session belongs to an admin", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "{\"is_admin\": bool}"}, "401": {"description": "No session"}}}
        },
        "/me": {
            "get": {"tags": ["auth"], "summary": "Current account", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Account"}}, "401": {"description": "No session"}}}
        },
        "/accounts": {
            "get": {"tags": ["auth"], "summary": "List accounts (admin)", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "No session"}, "403": {"description": "Not an admin"}}}
        },
        "/accounts/{accountID}": {
            "delete": {"tags": ["auth"], "summary": "Soft-delete an account (self or admin)", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "accountID", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}, "404": {"description": "Not found"}}}
        },
        "/players": {
            "get": {"tags": ["players"], "summary": "Leaderboard",
                "parameters": [
                    {"in": "query", "name": "sort", "type": "string", "enum": ["name", "nationality", "games_played", "wins", "itm_finishes", "on_the_bubble", "bounties", "rebuys", "add_ons", "winnings"]},
                    {"in": "query", "name": "order", "type": "string", "enum": ["asc", "desc"]}
                ],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Unknown sort column"}}},
            "post": {"tags": ["players"], "summary": "Create a player (admin)", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePlayerInput"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Player"}}, "422": {"description": "Validation failed"}}},
            "patch": {"tags": ["players"], "summary": "Apply a result table to player statistics without recording a game (admin)", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"results": {"type": "array", "items": {"$ref": "#/definitions/GameResult"}}}}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown player, nothing applied"}}}
        },
        "/players/{playerID}": {
            "get": {"tags": ["players"], "summary": "Get a player", "parameters": [{"in": "path", "name": "playerID", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Player"}}, "404": {"description": "Not found"}}},
            "patch": {"tags": ["players"], "summary": "Edit name or nationality (admin)", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "playerID", "required": true, "type": "integer"}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePlayerInput"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "delete": {"tags": ["players"], "summary": "Delete a player with no recorded games (admin)", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "playerID", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}, "409": {"description": "Player has recorded games"}}}
        },
        "/players/edit/{gameID}": {
            "patch": {"tags": ["games"], "summary": "Edit a game: reverse stored results, apply new ones (admin)", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "gameID", "required": true, "type": "integer"}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/GameInput"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Game or player not found"}, "409": {"description": "Statistics out of sync"}}}
        },
        "/games": {
            "get": {"tags": ["games"], "summary": "List games, newest first", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["games"], "summary": "Record a game and aggregate statistics (admin)", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/GameInput"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Game"}}, "404": {"description": "Unknown player, nothing written"}, "422": {"description": "Validation failed"}}}
        },
        "/games/game/{gameID}": {
            "get": {"tags": ["games"], "summary": "Get a game with its players", "parameters": [{"in": "path", "name": "gameID", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "delete": {"tags": ["games"], "summary": "Delete a game and reverse its statistics (admin)", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "gameID", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not found"}}}
        },
        "/posts": {
            "get": {"tags": ["posts"], "summary": "List league updates", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["posts"], "summary": "Create a post (admin). JSON or multipart with an image part", "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "multipart/form-data"],
                "responses": {"201": {"description": "Created"}, "422": {"description": "Validation failed"}}}
        },
        "/posts/{postID}": {
            "get": {"tags": ["posts"], "summary": "Get a post with comments", "parameters": [{"in": "path", "name": "postID", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "patch": {"tags": ["posts"], "summary": "Edit a post (admin)", "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "multipart/form-data"],
                "parameters": [{"in": "path", "name": "postID", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "delete": {"tags": ["posts"], "summary": "Delete a post (admin)", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "postID", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}}}
        },
        "/posts/{postID}/like": {
            "post": {"tags": ["posts"], "summary": "Toggle the caller's like", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "postID", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "No session"}}}
        },
        "/posts/{postID}/comments": {
            "get": {"tags": ["comments"], "summary": "List comments", "parameters": [{"in": "path", "name": "postID", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["comments"], "summary": "Add a comment", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "postID", "required": true, "type": "integer"}, {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"content": {"type": "string"}}}}],
                "responses": {"201": {"description": "Created"}}}
        },
        "/posts/{postID}/comments/{commentID}": {
            "delete": {"tags": ["comments"], "summary": "Delete a comment (author or admin)", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "postID", "required": true, "type": "integer"}, {"in": "path", "name": "commentID", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}}}
        },
        "/ws/leaderboard": {
            "get": {"tags": ["system"], "summary": "Websocket stream of LEADERBOARD_UPDATED events", "responses": {"101": {"description": "Switching Protocols"}}}
        }
    },
    "definitions": {
        "GameResult": {"type": "object", "properties": {
            "player_id": {"type": "integer", "description": "-1 marks an empty seat"},
            "profit": {"type": "integer"}, "itm": {"type": "boolean"}, "otb": {"type": "boolean"},
            "bounties": {"type": "integer"}, "rebuys": {"type": "integer"}, "add_ons": {"type": "integer"}}},
        "GameInput": {"type": "object", "properties": {
            "date": {"type": "string", "example": "2024-03-01"},
            "results": {"type": "array", "description": "Row 0 is the winner", "items": {"$ref": "#/definitions/GameResult"}},
            "old_results": {"type": "array", "description": "Accepted and ignored", "items": {"$ref": "#/definitions/GameResult"}}}},
        "Game": {"type": "object", "properties": {
            "id": {"type": "integer"}, "date": {"type": "string"}, "num_players": {"type": "integer"}, "prize_pool": {"type": "integer"},
            "results": {"type": "array", "items": {"$ref": "#/definitions/GameResult"}}}},
        "Player": {"type": "object", "properties": {
            "id": {"type": "integer"}, "name": {"type": "string"}, "nationality": {"type": "string"},
            "games_played": {"type": "integer"}, "wins": {"type": "integer"}, "itm_finishes": {"type": "integer"},
            "on_the_bubble": {"type": "integer"}, "bounties": {"type": "integer"}, "rebuys": {"type": "integer"},
            "add_ons": {"type": "integer"}, "winnings": {"type": "integer"}}},
        "CreatePlayerInput": {"type": "object", "properties": {"name": {"type": "string"}, "nationality": {"type": "string", "example": "DE"}}},
        "UpdatePlayerInput": {"type": "object", "properties": {"name": {"type": "string"}, "nationality": {"type": "string"}}},
        "SignupInput": {"type": "object", "properties": {"username": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}, "display_name": {"type": "string"}}},
        "LoginInput": {"type": "object", "properties": {"login": {"type": "string"}, "password": {"type": "string"}}},
        "Account": {"type": "object", "properties": {"id": {"type": "integer"}, "username": {"type": "string"}, "email": {"type": "string"}, "display_name": {"type": "string"}, "is_admin": {"type": "boolean"}}}
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Poker League API",
	Description:      "Players, games with statistics aggregation, leaderboard and league updates.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
