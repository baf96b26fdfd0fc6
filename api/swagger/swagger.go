package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Timetable API",
        "description": "Validates school data and generates conflict-free weekly timetables.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetable", "description": "Feasibility checks, generation and timetable views"},
        {"name": "Operations", "description": "Health, readiness and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Operations"],
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Operations"],
                "summary": "Readiness check (database ping)",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unavailable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Operations"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/timetable/validate/school/{schoolId}": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Check whether a school's data can produce a timetable",
                "parameters": [
                    {"name": "schoolId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Feasibility report", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing school id", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetable/generate/school/{schoolId}": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Generate and store the timetable of a school",
                "description": "Replaces the stored timetable. Feasibility and scheduling failures return 422 with the diagnostic payload in data.",
                "parameters": [
                    {"name": "schoolId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "Timetable stored", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "No classes or no class-subject mappings", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Generation already running for the school", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Infeasible input or incomplete schedule", "schema": {"$ref": "#/definitions/FailureEnvelope"}}
                }
            }
        },
        "/api/v1/timetable/class/{schoolId}/{classId}/{sectionId}": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Stored timetable of a class section grouped by day",
                "parameters": [
                    {"name": "schoolId", "in": "path", "required": true, "type": "string"},
                    {"name": "classId", "in": "path", "required": true, "type": "string"},
                    {"name": "sectionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetable/teacher/{schoolId}/{teacherId}": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Stored timetable of a teacher grouped by day",
                "parameters": [
                    {"name": "schoolId", "in": "path", "required": true, "type": "string"},
                    {"name": "teacherId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GenerateTimetableRequest": {
            "type": "object",
            "properties": {
                "autoMappings": {"type": "boolean", "description": "Overrides AUTO_MAPPINGS_ENABLED for this run"},
                "timeLimitSec": {"type": "integer", "minimum": 1, "maximum": 600}
            }
        },
        "Failure": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "reason": {"type": "string"},
                "validation": {"type": "object"},
                "unscheduled": {"type": "array", "items": {"type": "object"}}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "FailureEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/Failure"},
                "error": {"$ref": "#/definitions/APIError"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
