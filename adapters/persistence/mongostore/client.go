package mongostore

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khoahotran/devconnect/internal/config"
	"github.com/khoahotran/devconnect/pkg/logger"
)

const (
	usersCollection    = "users"
	profilesCollection = "profiles"
	postsCollection    = "posts"
)

var tUUID = reflect.TypeOf(uuid.UUID{})

// uuid.UUID is stored as BSON binary subtype 4 instead of the driver's default byte array.
func uuidEncodeValue(_ bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != tUUID {
		return bsoncodec.ValueEncoderError{Name: "uuidEncodeValue", Types: []reflect.Type{tUUID}, Received: val}
	}
	id := val.Interface().(uuid.UUID)
	return vw.WriteBinaryWithSubtype(id[:], bsontype.BinaryUUID)
}

func uuidDecodeValue(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != tUUID {
		return bsoncodec.ValueDecoderError{Name: "uuidDecodeValue", Types: []reflect.Type{tUUID}, Received: val}
	}

	switch vr.Type() {
	case bsontype.Binary:
		data, subtype, err := vr.ReadBinary()
		if err != nil {
			return err
		}
		if subtype != bsontype.BinaryUUID {
			return fmt.Errorf("unsupported binary subtype %v for uuid", subtype)
		}
		id, err := uuid.FromBytes(data)
		if err != nil {
			return err
		}
		val.Set(reflect.ValueOf(id))
		return nil
	case bsontype.Null:
		val.Set(reflect.ValueOf(uuid.Nil))
		return vr.ReadNull()
	default:
		return fmt.Errorf("cannot decode %v into uuid", vr.Type())
	}
}

func newRegistry() *bsoncodec.Registry {
	reg := bson.NewRegistry()
	reg.RegisterTypeEncoder(tUUID, bsoncodec.ValueEncoderFunc(uuidEncodeValue))
	reg.RegisterTypeDecoder(tUUID, bsoncodec.ValueDecoderFunc(uuidDecodeValue))
	return reg
}

func NewClient(ctx context.Context, cfg config.Config, log logger.Logger) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(cfg.Mongo.URI).SetRegistry(newRegistry())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("can not connect MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping MongoDB failed: %w", err)
	}

	log.Info("Connect MongoDB successfully.")
	return client, nil
}

// EnsureIndexes creates the unique keys the repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string]mongo.IndexModel{
		usersCollection: {
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		profilesCollection: {
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("user_id_unique"),
		},
		postsCollection: {
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("user_id_idx"),
		},
	}
	for coll, idx := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", coll, err)
		}
	}
	return nil
}
