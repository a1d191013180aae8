package artifacts

import "matchability/internal/common/validation"

var (
	modelSchema = validation.MustCompile("model.json", `{
		"type": "object",
		"required": ["type"],
		"properties": {
			"type": {"enum": ["logistic_regression", "decision_tree", "random_forest"]},
			"version": {"type": "string"},
			"features": {"type": "array", "items": {"type": "string"}},
			"classes": {"type": "array", "minItems": 2},
			"intercept": {"type": "number"},
			"coefficients": {"type": "array", "items": {"type": "number"}},
			"tree": {"$ref": "#/definitions/tree"},
			"trees": {"type": "array", "items": {"$ref": "#/definitions/tree"}}
		},
		"definitions": {
			"tree": {
				"type": "object",
				"required": ["children_left", "children_right", "feature", "threshold", "value"],
				"properties": {
					"children_left": {"type": "array", "items": {"type": "integer"}},
					"children_right": {"type": "array", "items": {"type": "integer"}},
					"feature": {"type": "array", "items": {"type": "integer"}},
					"threshold": {"type": "array", "items": {"type": "number"}},
					"value": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}}
				}
			}
		}
	}`)

	featuresSchema = validation.MustCompile("features.json", `{
		"type": "array",
		"minItems": 1,
		"uniqueItems": true,
		"items": {"type": "string", "minLength": 1}
	}`)

	vectorizerSchema = validation.MustCompile("vectorizer.json", `{
		"type": "object",
		"required": ["vocabulary", "idf"],
		"properties": {
			"vocabulary": {
				"type": "object",
				"minProperties": 1,
				"additionalProperties": {"type": "integer", "minimum": 0}
			},
			"idf": {"type": "array", "minItems": 1, "items": {"type": "number"}},
			"lowercase": {"type": "boolean"},
			"sublinear_tf": {"type": "boolean"},
			"binary": {"type": "boolean"},
			"norm": {"enum": ["l1", "l2", "none", "", null]},
			"token_pattern": {"type": "string"}
		}
	}`)

	clustersSchema = validation.MustCompile("clusters.json", `{
		"type": "object",
		"required": ["centroids"],
		"properties": {
			"centroids": {
				"type": "array",
				"items": {"type": "array", "minItems": 1, "items": {"type": "number"}}
			},
			"labels": {"type": "array", "items": {"type": "string"}}
		}
	}`)
)
