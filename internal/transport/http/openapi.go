package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"
)

// docTemplate follows the swag spec template conventions so host and
// base path stay configurable at registration time.
const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "{{.Title}}",
    "description": "{{escape .Description}}",
    "version": "{{.Version}}"
  },
  "host": "{{.Host}}",
  "basePath": "{{.BasePath}}",
  "paths": {
    "/v1/audio/speech": {
      "post": {
        "tags": ["Speech"],
        "summary": "Synthesize speech",
        "consumes": ["application/json"],
        "produces": ["audio/wav", "audio/mpeg"],
        "parameters": [{
          "name": "request",
          "in": "body",
          "required": true,
          "schema": {
            "type": "object",
            "required": ["input"],
            "properties": {
              "model": {"type": "string", "description": "variant id (standard|quantized|chinese); other names use the active variant"},
              "input": {"type": "string"},
              "voice": {"type": "string", "description": "voice id or mix expression, e.g. af_sky*0.4+af_nicole*0.6"},
              "response_format": {"type": "string", "enum": ["wav", "mp3"]},
              "speed": {"type": "number", "minimum": 0.1, "maximum": 3.0},
              "initial_silence_ms": {"type": "integer"},
              "language": {"type": "string"},
              "auto_detect": {"type": "boolean"},
              "force_style": {"type": "boolean"}
            }
          }
        }],
        "responses": {
          "200": {"description": "audio bytes"},
          "400": {"description": "bad input"},
          "404": {"description": "missing resource"},
          "500": {"description": "synthesis failure"}
        }
      }
    },
    "/v1/audio/voices": {
      "get": {
        "tags": ["Voices"],
        "summary": "List voice ids",
        "produces": ["application/json"],
        "responses": {"200": {"description": "voice id list"}}
      }
    },
    "/v1/audio/voices/detailed": {
      "get": {
        "tags": ["Voices"],
        "summary": "List voices with language and gender",
        "produces": ["application/json"],
        "responses": {"200": {"description": "voice detail list"}}
      }
    },
    "/healthz": {
      "get": {"summary": "Liveness probe", "responses": {"200": {"description": "alive"}}}
    },
    "/readyz": {
      "get": {"summary": "Readiness probe", "responses": {"200": {"description": "ready"}, "503": {"description": "loading"}}}
    },
    "/api/status": {
      "get": {
        "tags": ["Admin"],
        "summary": "Server and host statistics",
        "produces": ["application/json"],
        "responses": {"200": {"description": "status payload"}}
      }
    },
    "/api/usage/recent": {
      "get": {
        "tags": ["Admin"],
        "summary": "Recent synthesis usage records",
        "produces": ["application/json"],
        "parameters": [{"name": "limit", "in": "query", "type": "integer"}],
        "responses": {"200": {"description": "usage records"}}
      }
    }
  }
}`

var apiSpec = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "kokorod",
	Description:      "Kokoro text-to-speech server",
	InfoInstanceName: "kokorod",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(apiSpec.InstanceName(), apiSpec)
}

func (s *Service) handleOpenAPI(c *gin.Context) {
	doc, err := swag.ReadDoc(apiSpec.InstanceName())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "render openapi document: "+err.Error(), nil)
		return
	}
	c.Data(http.StatusOK, "application/json", []byte(doc))
}

const docsPage = `<!doctype html>
<html>
<head>
  <title>kokorod API</title>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>
</head>
<body>
  <script id="api-reference" data-url="/openapi.json"></script>
  <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`

func (s *Service) handleDocs(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(docsPage))
}
