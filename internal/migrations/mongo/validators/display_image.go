package validators

import "go.mongodb.org/mongo-driver/bson"

var DisplayImageValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"filename",
			"active",
			"uploaded_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"filename": bson.M{
				"bsonType":  "string",
				"maxLength": 120,
			},

			"caption": bson.M{
				"bsonType":  "string",
				"maxLength": 255,
			},

			"active": bson.M{
				"bsonType": "bool",
			},

			"uploaded_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
