// Package mongo connects to MongoDB through go.mongodb.org/mongo-driver/v2.
package mongo
