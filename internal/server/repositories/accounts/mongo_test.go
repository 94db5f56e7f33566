package accounts

import (
	"errors"
	"testing"
	"time"

	"github.com/bulkassi/webProg2/internal/common"
	"github.com/bulkassi/webProg2/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestDocumentRoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	oid := primitive.NewObjectID()

	doc := toDocument(&models.Account{
		ID: "ignored", Username: "pupkin", Email: "pupkin@mail.ru",
		PasswordHash: "hash", Role: models.RoleModerator, CreatedAt: now, UpdatedAt: now,
	})
	assert.True(t, doc.ID.IsZero(), "the id is assigned by the store")
	doc.ID = oid

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var decoded accountDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	got := decoded.toAccount()
	assert.Equal(t, oid.Hex(), got.ID)
	assert.Equal(t, models.RoleModerator, got.Role)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.True(t, got.CreatedAt.Equal(now))

	var fields bson.M
	require.NoError(t, bson.Unmarshal(raw, &fields))
	assert.Contains(t, fields, "passwordHash")
	assert.Contains(t, fields, "createdAt")
}

func TestSetDocument(t *testing.T) {
	now := time.Now().UTC()

	set := setDocument(models.AccountPatch{}, now)
	assert.Equal(t, bson.D{{Key: "updatedAt", Value: now}}, set)

	name, role := "vasya", models.RoleAdmin
	set = setDocument(models.AccountPatch{Username: &name, Role: &role}, now)
	assert.Equal(t, bson.D{
		{Key: "username", Value: "vasya"},
		{Key: "role", Value: "admin"},
		{Key: "updatedAt", Value: now},
	}, set)
}

func TestIndexModels_AreUnique(t *testing.T) {
	idx := indexModels()
	require.Len(t, idx, 2)
	for _, m := range idx {
		require.NotNil(t, m.Options.Unique)
		assert.True(t, *m.Options.Unique)
	}
	assert.Equal(t, bson.D{{Key: "username", Value: 1}}, idx[0].Keys)
	assert.Equal(t, bson.D{{Key: "email", Value: 1}}, idx[1].Keys)
}

func TestMapMongoWriteError(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, mapMongoWriteError(dup), common.ErrorAlreadyExists)

	err := mapMongoWriteError(errors.New("socket closed"))
	assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Contains(t, err.Error(), "db error: socket closed")
}
