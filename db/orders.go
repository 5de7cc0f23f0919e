package db

import (
	"context"

	"easymoves/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PaymentCovers reports whether a completed payment of the user already
// includes the class.
func (s *Store) PaymentCovers(ctx context.Context, email, classID string) (bool, error) {
	err := s.Payments.FindOne(ctx, bson.M{
		"email":      email,
		"classesIds": classID,
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) HasSelectedClass(ctx context.Context, classID, email string) (bool, error) {
	err := s.SelectedClasses.FindOne(ctx, bson.M{
		"classId":    classID,
		"selectedBy": email,
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) InsertSelectedClass(ctx context.Context, entry models.SelectedClass) (models.InsertResult, error) {
	res, err := s.SelectedClasses.InsertOne(ctx, entry)
	if err != nil {
		return models.InsertResult{}, err
	}
	return models.InsertResult{Acknowledged: true, InsertedID: insertedID(res.InsertedID)}, nil
}

// FindSelectedClass returns (nil, nil) when the id is unknown or malformed.
func (s *Store) FindSelectedClass(ctx context.Context, id string) (*models.SelectedClass, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var entry models.SelectedClass
	err = s.SelectedClasses.FindOne(ctx, bson.M{"_id": oid}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Store) DeleteSelectedClass(ctx context.Context, id string) (models.DeleteResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.DeleteResult{Acknowledged: true}, nil
	}

	res, err := s.SelectedClasses.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return models.DeleteResult{}, err
	}
	return models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (s *Store) DeleteSelectedClasses(ctx context.Context, ids []string) (models.DeleteResult, error) {
	oids := toObjectIDs(ids)
	if len(oids) == 0 {
		return models.DeleteResult{Acknowledged: true}, nil
	}

	res, err := s.SelectedClasses.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return models.DeleteResult{}, err
	}
	return models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (s *Store) ListSelectedByUser(ctx context.Context, email string) ([]models.SelectedClass, error) {
	cursor, err := s.SelectedClasses.Find(ctx, bson.M{"selectedBy": email})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []models.SelectedClass{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) InsertPayment(ctx context.Context, payment models.Payment) (models.InsertResult, error) {
	res, err := s.Payments.InsertOne(ctx, payment)
	if err != nil {
		return models.InsertResult{}, err
	}
	return models.InsertResult{Acknowledged: true, InsertedID: insertedID(res.InsertedID)}, nil
}

func (s *Store) FindPaymentByID(ctx context.Context, id string) (*models.Payment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var payment models.Payment
	err = s.Payments.FindOne(ctx, bson.M{"_id": oid}).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *Store) ListPaymentsByUser(ctx context.Context, email string) ([]models.Payment, error) {
	cursor, err := s.Payments.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	payments := []models.Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// AdjustClassCounters takes one seat and adds one enrollment on every
// class in classIDs, as a single multi-document update. Each document
// update is atomic; the set as a whole is not.
func (s *Store) AdjustClassCounters(ctx context.Context, classIDs []string) (models.UpdateResult, error) {
	oids := toObjectIDs(classIDs)
	if len(oids) == 0 {
		return models.UpdateResult{Acknowledged: true}, nil
	}

	res, err := s.Classes.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": oids}},
		bson.M{"$inc": bson.M{"availableSeats": -1, "totalEnrolled": 1}},
	)
	if err != nil {
		return models.UpdateResult{}, err
	}
	return models.UpdateResult{Acknowledged: true, MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

// Idempotency record operations, consumed by the settlement middleware.

// CreateIdempotencyRecord inserts a placeholder for the key. It returns
// created=false when the key already exists.
func (s *Store) CreateIdempotencyRecord(ctx context.Context, rec models.IdempotencyRecord) (bool, error) {
	_, err := s.Idempotency.InsertOne(ctx, rec)
	if IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) FindIdempotencyRecord(ctx context.Context, key string) (*models.IdempotencyRecord, error) {
	var rec models.IdempotencyRecord
	err := s.Idempotency.FindOne(ctx, bson.M{"key": key}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) SaveIdempotencyResponse(ctx context.Context, key string, response map[string]interface{}) error {
	_, err := s.Idempotency.UpdateOne(ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{"response": response}},
	)
	return err
}
