package db

import (
	"context"

	"easymoves/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *Store) InsertClass(ctx context.Context, class models.Class) (models.InsertResult, error) {
	res, err := s.Classes.InsertOne(ctx, class)
	if err != nil {
		return models.InsertResult{}, err
	}
	return models.InsertResult{Acknowledged: true, InsertedID: insertedID(res.InsertedID)}, nil
}

func (s *Store) ListClassesByStatus(ctx context.Context, status models.ClassStatus) ([]models.Class, error) {
	return s.findClasses(ctx, bson.M{"status": status})
}

func (s *Store) ListAllClasses(ctx context.Context) ([]models.Class, error) {
	return s.findClasses(ctx, bson.M{})
}

func (s *Store) ListClassesByInstructor(ctx context.Context, email string) ([]models.Class, error) {
	return s.findClasses(ctx, bson.M{"instructorEmail": email})
}

// ListClassesByIDs returns the classes whose hex ids appear in ids.
// Malformed ids are skipped.
func (s *Store) ListClassesByIDs(ctx context.Context, ids []string) ([]models.Class, error) {
	oids := toObjectIDs(ids)
	if len(oids) == 0 {
		return []models.Class{}, nil
	}
	return s.findClasses(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (s *Store) findClasses(ctx context.Context, filter bson.M) ([]models.Class, error) {
	cursor, err := s.Classes.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	classes := []models.Class{}
	if err := cursor.All(ctx, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

// UpdateClassInfo mutates only className and price.
func (s *Store) UpdateClassInfo(ctx context.Context, id, className string, price float64) (models.UpdateResult, error) {
	return s.updateClass(ctx, id, bson.M{"className": className, "price": price})
}

func (s *Store) SetClassStatus(ctx context.Context, id string, status models.ClassStatus) (models.UpdateResult, error) {
	return s.updateClass(ctx, id, bson.M{"status": status})
}

func (s *Store) SetClassFeedback(ctx context.Context, id, feedback string) (models.UpdateResult, error) {
	return s.updateClass(ctx, id, bson.M{"feedback": feedback})
}

func (s *Store) updateClass(ctx context.Context, id string, fields bson.M) (models.UpdateResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.UpdateResult{Acknowledged: true}, nil
	}

	res, err := s.Classes.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return models.UpdateResult{}, err
	}
	return models.UpdateResult{Acknowledged: true, MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

func toObjectIDs(ids []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	return oids
}
