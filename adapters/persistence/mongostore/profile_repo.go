package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khoahotran/devconnect/internal/domain/profile"
)

type profileRepo struct {
	coll *mongo.Collection
}

func NewProfileRepo(db *mongo.Database) profile.Repository {
	return &profileRepo{coll: db.Collection(profilesCollection)}
}

type ownerDoc struct {
	ID     uuid.UUID `bson:"_id"`
	Name   string    `bson:"name"`
	Avatar string    `bson:"avatar"`
}

// profileDoc is a profile with the owning user joined in by $lookup.
type profileDoc struct {
	profile.Profile `bson:",inline"`
	Owners          []ownerDoc `bson:"owner"`
}

func (d *profileDoc) toDomain() *profile.Profile {
	p := d.Profile
	if len(d.Owners) > 0 {
		o := d.Owners[0]
		p.Owner = &profile.Owner{ID: o.ID, Name: o.Name, Avatar: o.Avatar}
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Social == nil {
		p.Social = map[profile.SocialPlatform]string{}
	}
	if p.Experience == nil {
		p.Experience = []profile.ExperienceEntry{}
	}
	if p.Education == nil {
		p.Education = []profile.EducationEntry{}
	}
	return &p
}

func withOwner(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "user_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
	}
}

func (r *profileRepo) find(ctx context.Context, match bson.M) ([]*profile.Profile, error) {
	cur, err := r.coll.Aggregate(ctx, withOwner(match))
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer cur.Close(ctx)

	profiles := make([]*profile.Profile, 0)
	for cur.Next(ctx) {
		var doc profileDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode profile: %w", err)
		}
		profiles = append(profiles, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}
	return profiles, nil
}

func (r *profileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	profiles, err := r.find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, profile.ErrProfileNotFound
	}
	return profiles[0], nil
}

func (r *profileRepo) List(ctx context.Context) ([]*profile.Profile, error) {
	return r.find(ctx, bson.M{})
}

// Save overwrites every mutable field of the user's document, creating it when absent.
// _id and created_at are only written on insert.
func (r *profileRepo) Save(ctx context.Context, p *profile.Profile) error {
	update := bson.M{
		"$set": bson.M{
			"company":        p.Company,
			"website":        p.Website,
			"location":       p.Location,
			"status":         p.Status,
			"skills":         p.Skills,
			"bio":            p.Bio,
			"githubusername": p.GitHubUsername,
			"social":         p.Social,
			"experience":     p.Experience,
			"education":      p.Education,
			"updated_at":     p.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":        p.ID,
			"created_at": p.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetProjection(bson.M{"_id": 1, "created_at": 1})

	var keys struct {
		ID        uuid.UUID `bson:"_id"`
		CreatedAt time.Time `bson:"created_at"`
	}
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"user_id": p.UserID}, update, opts).Decode(&keys); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	p.ID = keys.ID
	p.CreatedAt = keys.CreatedAt
	return nil
}
