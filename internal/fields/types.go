package fields

import "strings"

// Type identifies the declared type of a project custom field and the JSON
// value shape it serializes to on an issue.
type Type string

const (
	TypeEnum         Type = "enum"
	TypeMultiEnum    Type = "multi_enum"
	TypeState        Type = "state"
	TypeUser         Type = "user"
	TypeMultiUser    Type = "multi_user"
	TypeOwned        Type = "owned"
	TypeVersion      Type = "version"
	TypeMultiVersion Type = "multi_version"
	TypeBuild        Type = "build"
	TypeMultiBuild   Type = "multi_build"
	TypeString       Type = "string"
	TypeText         Type = "text"
	TypeInteger      Type = "integer"
	TypeFloat        Type = "float"
	TypeDate         Type = "date"
	TypePeriod       Type = "period"
)

// TypeFromAPI maps a YouTrack fieldType id (e.g. "enum[1]", "user[*]") to a
// Type. Unknown ids fall back to TypeString so issue writes still succeed.
func TypeFromAPI(id string) Type {
	multi := strings.HasSuffix(id, "[*]")
	switch {
	case strings.HasPrefix(id, "enum["):
		if multi {
			return TypeMultiEnum
		}
		return TypeEnum
	case strings.HasPrefix(id, "state["):
		return TypeState
	case strings.HasPrefix(id, "user["):
		if multi {
			return TypeMultiUser
		}
		return TypeUser
	case strings.HasPrefix(id, "ownedField["):
		return TypeOwned
	case strings.HasPrefix(id, "version["):
		if multi {
			return TypeMultiVersion
		}
		return TypeVersion
	case strings.HasPrefix(id, "build["):
		if multi {
			return TypeMultiBuild
		}
		return TypeBuild
	case id == "string":
		return TypeString
	case id == "text":
		return TypeText
	case id == "integer":
		return TypeInteger
	case id == "float":
		return TypeFloat
	case id == "date", id == "date and time":
		return TypeDate
	case id == "period":
		return TypePeriod
	}
	return TypeString
}

// issueFieldType is the $type YouTrack expects for the custom field entry on
// an issue create/update payload.
func (t Type) issueFieldType() string {
	switch t {
	case TypeEnum:
		return "SingleEnumIssueCustomField"
	case TypeMultiEnum:
		return "MultiEnumIssueCustomField"
	case TypeState:
		return "StateIssueCustomField"
	case TypeUser:
		return "SingleUserIssueCustomField"
	case TypeMultiUser:
		return "MultiUserIssueCustomField"
	case TypeOwned:
		return "SingleOwnedIssueCustomField"
	case TypeVersion:
		return "SingleVersionIssueCustomField"
	case TypeMultiVersion:
		return "MultiVersionIssueCustomField"
	case TypeBuild:
		return "SingleBuildIssueCustomField"
	case TypeMultiBuild:
		return "MultiBuildIssueCustomField"
	case TypeText:
		return "TextIssueCustomField"
	case TypeDate:
		return "DateIssueCustomField"
	case TypePeriod:
		return "PeriodIssueCustomField"
	default:
		return "SimpleIssueCustomField"
	}
}

// IssueValue builds the customFields array entry carrying value for the named
// field. Values arrive as strings from the tool layer; multi-valued fields
// accept comma-separated lists.
func (t Type) IssueValue(fieldName, value string) map[string]interface{} {
	entry := map[string]interface{}{
		"name":  fieldName,
		"$type": t.issueFieldType(),
	}

	switch t {
	case TypeEnum, TypeState, TypeOwned, TypeVersion, TypeBuild:
		entry["value"] = map[string]string{"name": value}
	case TypeMultiEnum, TypeMultiVersion, TypeMultiBuild:
		entry["value"] = namedValues(value, "name")
	case TypeUser:
		entry["value"] = map[string]string{"login": value}
	case TypeMultiUser:
		entry["value"] = namedValues(value, "login")
	case TypeText:
		entry["value"] = map[string]string{"text": value}
	case TypePeriod:
		entry["value"] = map[string]string{"presentation": value}
	default:
		// Simple and date fields take the value as-is; YouTrack coerces
		// numeric strings for integer and float fields.
		entry["value"] = value
	}
	return entry
}

func namedValues(value, key string) []map[string]string {
	parts := strings.Split(value, ",")
	out := make([]map[string]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, map[string]string{key: p})
		}
	}
	return out
}
