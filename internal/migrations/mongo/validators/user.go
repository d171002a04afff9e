package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"username",
			"password_hash",
			"role",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"username": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 64,
			},

			"password_hash": bson.M{
				"bsonType": "string",
			},

			"department": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"pic_name": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"role": bson.M{
				"bsonType": "string",
				"enum": []string{
					"admin",
					"user",
				},
			},
		},
	},
}
