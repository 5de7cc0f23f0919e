package db

import (
	"context"

	"easymoves/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func (s *Store) InsertUser(ctx context.Context, user models.User) (models.InsertResult, error) {
	res, err := s.Users.InsertOne(ctx, user)
	if err != nil {
		return models.InsertResult{}, err
	}
	return models.InsertResult{Acknowledged: true, InsertedID: insertedID(res.InsertedID)}, nil
}

// FindUserByEmail returns (nil, nil) when no user holds the email.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// RoleOf resolves an email to a role, reading the store on every call so
// role changes take effect on the next request. An unknown email yields
// the empty role.
func (s *Store) RoleOf(ctx context.Context, email string) (models.Role, error) {
	user, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	return user.Role, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := s.Users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	cursor, err := s.Users.Find(ctx, bson.M{"role": role})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserRole(ctx context.Context, id string, role models.Role) (models.UpdateResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// malformed id matches nothing, same as an unknown one
		return models.UpdateResult{Acknowledged: true}, nil
	}

	res, err := s.Users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return models.UpdateResult{}, err
	}
	return models.UpdateResult{Acknowledged: true, MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}
