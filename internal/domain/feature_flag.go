package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeatureFlag is the global configuration record for a named rollout.
// AdminOverrideEnabled/AdminOverrideDisabled form a mutually exclusive
// tri-state: the disable side is the emergency kill-switch and wins over
// everything, including per-user overrides.
type FeatureFlag struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                  string             `bson:"name" json:"name"` // unique key
	IsEnabled             bool               `bson:"isEnabled" json:"isEnabled"`
	RolloutPercentage     int                `bson:"rolloutPercentage" json:"rolloutPercentage"` // 0-100
	AdminOverrideEnabled  bool               `bson:"adminOverrideEnabled" json:"adminOverrideEnabled"`
	AdminOverrideDisabled bool               `bson:"adminOverrideDisabled" json:"adminOverrideDisabled"`
	Metadata              map[string]string  `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserFlagOverride is a per-user exception to a flag's computed decision.
// Unique per (userId, flagName); writes upsert.
type UserFlagOverride struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	FlagName  string             `bson:"flagName" json:"flagName"`
	IsEnabled bool               `bson:"isEnabled" json:"isEnabled"`
	Reason    string             `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
