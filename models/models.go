package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the access level of a user. Values outside the three known
// roles are rejected at the HTTP boundary.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
	RoleUser       Role = "user"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleInstructor, RoleUser:
		return Role(s), true
	}
	return "", false
}

// ClassStatus is the moderation state of a class.
type ClassStatus string

const (
	StatusPending  ClassStatus = "pending"
	StatusApproved ClassStatus = "approved"
	StatusDenied   ClassStatus = "denied"
)

func ParseClassStatus(s string) (ClassStatus, bool) {
	switch ClassStatus(s) {
	case StatusPending, StatusApproved, StatusDenied:
		return ClassStatus(s), true
	}
	return "", false
}

type User struct {
	ID    primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name  string             `json:"name" bson:"name"`
	Email string             `json:"email" bson:"email"`
	Photo string             `json:"photo,omitempty" bson:"photo,omitempty"`
	Role  Role               `json:"role" bson:"role"`
}

type Class struct {
	ID              primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	ClassName       string             `json:"className" bson:"className"`
	Image           string             `json:"image,omitempty" bson:"image,omitempty"`
	InstructorName  string             `json:"instructorName,omitempty" bson:"instructorName,omitempty"`
	InstructorEmail string             `json:"instructorEmail" bson:"instructorEmail"`
	AvailableSeats  int                `json:"availableSeats" bson:"availableSeats"`
	Price           float64            `json:"price" bson:"price"`
	TotalEnrolled   int                `json:"totalEnrolled" bson:"totalEnrolled"`
	Status          ClassStatus        `json:"status" bson:"status"`
	Feedback        string             `json:"feedback,omitempty" bson:"feedback,omitempty"`
}

// SelectedClass is a cart entry: one class picked by one student.
// At most one entry may exist per (classId, selectedBy) pair.
type SelectedClass struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	ClassID    string             `json:"classId" bson:"classId"`
	ClassName  string             `json:"className,omitempty" bson:"className,omitempty"`
	Image      string             `json:"image,omitempty" bson:"image,omitempty"`
	Price      float64            `json:"price,omitempty" bson:"price,omitempty"`
	SelectedBy string             `json:"selectedBy" bson:"selectedBy"`
}

// Payment is written once by settlement and never mutated.
type Payment struct {
	ID               primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Email            string             `json:"email" bson:"email"`
	TransactionID    string             `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	Amount           float64            `json:"amount" bson:"amount"`
	ClassesIDs       []string           `json:"classesIds" bson:"classesIds"`
	ClassesNames     []string           `json:"classesNames,omitempty" bson:"classesNames,omitempty"`
	SelectedClassIDs []string           `json:"selectedClassIds" bson:"selectedClassIds"`
	Date             time.Time          `json:"date" bson:"date"`
}

// IdempotencyRecord caches the response of a settlement request keyed by
// the client-supplied Idempotency-Key header.
type IdempotencyRecord struct {
	Key         string                 `bson:"key"`
	Method      string                 `bson:"method"`
	Path        string                 `bson:"path"`
	Email       string                 `bson:"email"`
	RequestHash string                 `bson:"request_hash"`
	Response    map[string]interface{} `bson:"response,omitempty"`
	CreatedAt   time.Time              `bson:"created_at"`
	ExpiresAt   time.Time              `bson:"expires_at"`
}
