package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "DSJ HRMS API",
        "description": "Personnel records and employment-timeline consistency engine for district judiciary staff",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Login, token refresh and password management"},
        {"name": "Employees", "description": "Employee masters and service histories"},
        {"name": "Lifecycle", "description": "Transfer, rejoin and succession operations"},
        {"name": "Lookups", "description": "Designation and posting-category master data"},
        {"name": "Reports", "description": "Async roster and service-history exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees": {
            "get": {
                "tags": ["Employees"],
                "summary": "List employees",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "hq_id", "in": "query", "type": "string"},
                    {"name": "tehsil_id", "in": "query", "type": "string"},
                    {"name": "designation_id", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Employees"],
                "summary": "Register employee",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEmployeeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees/{id}": {
            "get": {
                "tags": ["Employees"],
                "summary": "Get employee with full service history",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Employees"],
                "summary": "Update employee master record",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateEmployeeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "New date of appointment conflicts with recorded history"}
                }
            },
            "delete": {
                "tags": ["Employees"],
                "summary": "Deactivate employee",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deactivated"}
                }
            }
        },
        "/employees/{id}/history": {
            "get": {
                "tags": ["Employees"],
                "summary": "Get the employee's service history",
                "description": "Blocks in chronological order with nested leaves and disciplinary actions.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Employee not found"}
                }
            },
            "put": {
                "tags": ["Employees"],
                "summary": "Replace the employee's service history",
                "description": "Validates the submitted timeline with the consistency engine and saves it atomically.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateHistoryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Timeline inconsistent; error details carry per-field violations"}
                }
            }
        },
        "/employees/{id}/history/validate": {
            "post": {
                "tags": ["Employees"],
                "summary": "Dry-run validation of a service history",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateHistoryRequest"}}
                ],
                "responses": {
                    "200": {"description": "Validation result with field errors and auto-fill", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees/{id}/transfer": {
            "post": {
                "tags": ["Lifecycle"],
                "summary": "Transfer the employee to a new posting",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransferRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Ineligible or timeline violation"}
                }
            }
        },
        "/employees/{id}/rejoin": {
            "post": {
                "tags": ["Lifecycle"],
                "summary": "Rejoin service after an exit",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RejoinRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK, data carries absent_days", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Ineligible or timeline violation"}
                }
            }
        },
        "/employees/{id}/rejoin/preview": {
            "get": {
                "tags": ["Lifecycle"],
                "summary": "Preview the absence span of a rejoin",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "rejoin_date", "in": "query", "required": false, "type": "string", "format": "date", "description": "Defaults to today"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees/{id}/succession": {
            "post": {
                "tags": ["Lifecycle"],
                "summary": "Rename the employee's current seat",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SuccessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Ineligible seat or timeline violation"}
                }
            }
        },
        "/lookups/designations": {
            "get": {
                "tags": ["Lookups"],
                "summary": "List designations",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lookups/posting-categories": {
            "get": {
                "tags": ["Lookups"],
                "summary": "List posting categories",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a roster or service-history export",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Job queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Poll export job status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/download/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a finished export",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "produces": ["application/octet-stream"],
                "responses": {
                    "200": {"description": "File stream"},
                    "403": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateEmployeeRequest": {
            "type": "object",
            "required": ["full_name", "date_of_appointment"],
            "properties": {
                "full_name": {"type": "string"},
                "father_name": {"type": "string"},
                "cnic": {"type": "string"},
                "date_of_birth": {"type": "string", "format": "date"},
                "date_of_appointment": {"type": "string", "format": "date"}
            }
        },
        "UpdateEmployeeRequest": {
            "type": "object",
            "required": ["full_name", "date_of_appointment"],
            "properties": {
                "full_name": {"type": "string"},
                "father_name": {"type": "string"},
                "cnic": {"type": "string"},
                "date_of_birth": {"type": "string", "format": "date"},
                "date_of_appointment": {"type": "string", "format": "date"},
                "active": {"type": "boolean"}
            }
        },
        "UpdateHistoryRequest": {
            "type": "object",
            "properties": {
                "employment_history": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/EmploymentBlockPayload"}
                }
            }
        },
        "EmploymentBlockPayload": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "status": {"type": "string", "enum": ["IN_SERVICE", "RETIRED", "RESIGNED", "TERMINATED", "SUSPENDED", "OSD", "DEPUTATION", "ABSENT", "REMOVED", "DECEASED"]},
                "from_date": {"type": "string", "format": "date"},
                "to_date": {"type": "string", "format": "date"},
                "status_date": {"type": "string", "format": "date"},
                "currently_working": {"type": "boolean"},
                "posting_place_title": {"type": "string"},
                "hq_id": {"type": "string"},
                "tehsil_id": {"type": "string"},
                "posting_category_id": {"type": "string"},
                "unit_id": {"type": "string"},
                "designation_id": {"type": "string"},
                "bps": {"type": "integer"},
                "order_number": {"type": "string"},
                "order_date": {"type": "string", "format": "date"},
                "status_remarks": {"type": "string"},
                "leaves": {"type": "array", "items": {"type": "object"}},
                "disciplinary_actions": {"type": "array", "items": {"type": "object"}}
            }
        },
        "TransferRequest": {
            "type": "object",
            "required": ["relieving_date", "joining_date", "posting_place_title", "order_number", "order_date"],
            "properties": {
                "relieving_date": {"type": "string", "format": "date"},
                "joining_date": {"type": "string", "format": "date"},
                "posting_place_title": {"type": "string"},
                "hq_id": {"type": "string"},
                "tehsil_id": {"type": "string"},
                "posting_category_id": {"type": "string"},
                "unit_id": {"type": "string"},
                "designation_id": {"type": "string"},
                "bps": {"type": "integer"},
                "order_number": {"type": "string"},
                "order_date": {"type": "string", "format": "date"},
                "mark_current": {"type": "boolean", "default": true}
            }
        },
        "RejoinRequest": {
            "type": "object",
            "required": ["rejoin_date", "order_number", "posting_place_title"],
            "properties": {
                "rejoin_date": {"type": "string", "format": "date"},
                "order_number": {"type": "string"},
                "order_date": {"type": "string", "format": "date"},
                "posting_place_title": {"type": "string"},
                "hq_id": {"type": "string"},
                "tehsil_id": {"type": "string"},
                "posting_category_id": {"type": "string"},
                "unit_id": {"type": "string"},
                "designation_id": {"type": "string"},
                "bps": {"type": "integer"},
                "mark_current": {"type": "boolean", "default": true}
            }
        },
        "SuccessionRequest": {
            "type": "object",
            "required": ["relieving_date", "joining_date", "new_posting_place_title"],
            "properties": {
                "relieving_date": {"type": "string", "format": "date"},
                "joining_date": {"type": "string", "format": "date"},
                "new_posting_place_title": {"type": "string"},
                "order_number": {"type": "string"},
                "order_date": {"type": "string", "format": "date"}
            }
        },
        "ReportRequest": {
            "type": "object",
            "required": ["type", "format"],
            "properties": {
                "type": {"type": "string", "enum": ["ROSTER", "SERVICE_HISTORY"]},
                "format": {"type": "string", "enum": ["CSV", "PDF"]},
                "employee_id": {"type": "string"},
                "hq_id": {"type": "string"},
                "active_only": {"type": "boolean"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
