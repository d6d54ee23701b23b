package seed

// fixtureSchema is the JSON schema every fixture must pass before any row is
// written. It pins shapes and required fields; enum membership and force
// names are checked by the service path during Apply, so error messages for
// those come out the same as they would over the API.
const fixtureSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "employees": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["windows_login"],
        "additionalProperties": false,
        "properties": {
          "windows_login": {"type": "string", "minLength": 1},
          "first_name": {"type": "string"},
          "last_name": {"type": "string"},
          "email": {"type": "string"},
          "role": {"type": "string"}
        }
      }
    },
    "applications": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "versions": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["version"],
              "additionalProperties": false,
              "properties": {
                "version": {"type": "string", "minLength": 1},
                "release_date": {"type": "string"},
                "current": {"type": "boolean"}
              }
            }
          }
        }
      }
    },
    "amendments": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["amendment_type", "description"],
        "additionalProperties": false,
        "properties": {
          "key": {"type": "string", "minLength": 1},
          "amendment_type": {"type": "string", "minLength": 1},
          "description": {"type": "string", "minLength": 1},
          "amendment_status": {"type": "string"},
          "development_status": {"type": "string"},
          "priority": {"type": "string"},
          "force": {"type": "string"},
          "application": {"type": "string"},
          "notes": {"type": "string"},
          "reported_by": {"type": "string"},
          "assigned_to": {"type": "string"},
          "database_changes": {"type": "boolean"},
          "db_upgrade_changes": {"type": "boolean"},
          "applications": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["application_name"],
              "additionalProperties": false,
              "properties": {
                "application_name": {"type": "string", "minLength": 1},
                "version": {"type": "string"}
              }
            }
          },
          "progress": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["description"],
              "additionalProperties": false,
              "properties": {
                "description": {"type": "string", "minLength": 1},
                "notes": {"type": "string"}
              }
            }
          },
          "links": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["to"],
              "additionalProperties": false,
              "properties": {
                "to": {"type": "string", "minLength": 1},
                "link_type": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`
