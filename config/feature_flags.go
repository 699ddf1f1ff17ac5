package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles and gradual rollouts.
// Supports percentage-based rollout, per-user targeting, and time windows.
type FeatureFlags struct {
	mu sync.RWMutex

	// Core features
	features map[string]*Feature

	// Override rules (for testing/debugging)
	userOverrides map[string]map[string]bool // userID -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	// Users are assigned based on hash of their ID
	RolloutPercent int

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time

	// A/B test variant (for experiments)
	Variants []string
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	UserID  string // User UUID
	IsGuest bool   // Guest (demo) account
}

// Predefined feature flag names.
const (
	// === Gamification Features ===
	FeatureGamificationStreaks      = "gamification.streaks"      // Daily streak tracking
	FeatureGamificationAchievements = "gamification.achievements" // Achievement unlocks
	FeatureGamificationPong         = "gamification.pong"         // Pong mini-game scores
	FeatureGamificationEasterEggs   = "gamification.easter_eggs"  // Hidden terminal commands

	// === Jobs Features ===
	FeatureJobsRefresh     = "jobs.refresh"     // Manual remote-jobs refresh
	FeatureJobsApplication = "jobs.application" // Application tracking

	// === Relocation Features ===
	FeatureRelocationBrowser = "relocation.browser" // Relocate Me dataset browsing

	// === Notification Features ===
	FeatureNotifyAchievements = "notify.achievements" // Achievement unlock toasts
	FeatureNotifyStreaks      = "notify.streaks"      // Streak milestone messages
	FeatureNotifyPongRecords  = "notify.pong_records" // New pong record toasts

	// === Experimental Features ===
	FeatureExperimentalAnalytics = "experimental.analytics" // Advanced dashboard analytics
	FeatureExperimentalRealtime  = "experimental.realtime"  // Push-based dashboard updates
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:      make(map[string]*Feature),
		userOverrides: make(map[string]map[string]bool),
	}

	// Initialize all features with defaults
	ff.initializeDefaults()

	// Load overrides from environment
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	// Gamification is the heart of the product - enabled by default
	ff.features[FeatureGamificationStreaks] = &Feature{
		Name:           FeatureGamificationStreaks,
		Description:    "Track daily activity streaks",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureGamificationAchievements] = &Feature{
		Name:           FeatureGamificationAchievements,
		Description:    "Unlock achievements with bonus points",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureGamificationPong] = &Feature{
		Name:           FeatureGamificationPong,
		Description:    "Pong mini-game score tracking",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureGamificationEasterEggs] = &Feature{
		Name:           FeatureGamificationEasterEggs,
		Description:    "Hidden terminal commands and konami code",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Jobs features
	ff.features[FeatureJobsRefresh] = &Feature{
		Name:           FeatureJobsRefresh,
		Description:    "Manual remote jobs refresh",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureJobsApplication] = &Feature{
		Name:           FeatureJobsApplication,
		Description:    "Job application tracking",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Relocation features
	ff.features[FeatureRelocationBrowser] = &Feature{
		Name:           FeatureRelocationBrowser,
		Description:    "Browse Relocate Me job listings",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Notification features - carefully tuned to avoid spam
	ff.features[FeatureNotifyAchievements] = &Feature{
		Name:           FeatureNotifyAchievements,
		Description:    "Notify on achievement unlock",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureNotifyStreaks] = &Feature{
		Name:           FeatureNotifyStreaks,
		Description:    "Streak milestone messages",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureNotifyPongRecords] = &Feature{
		Name:           FeatureNotifyPongRecords,
		Description:    "New pong record toasts",
		Enabled:        true,
		RolloutPercent: 50, // A/B test
	}

	// Experimental features - disabled by default
	ff.features[FeatureExperimentalAnalytics] = &Feature{
		Name:           FeatureExperimentalAnalytics,
		Description:    "Advanced analytics dashboard",
		Enabled:        false,
		RolloutPercent: 0,
	}

	ff.features[FeatureExperimentalRealtime] = &Feature{
		Name:           FeatureExperimentalRealtime,
		Description:    "Push-based dashboard updates",
		Enabled:        false,
		RolloutPercent: 0,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false|<percent>
// Example: FEATURE_GAMIFICATION_PONG=true
// Example: FEATURE_NOTIFY_PONG_RECORDS=50 (50% rollout)
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			// Try parsing as boolean
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
				if b {
					feature.RolloutPercent = 100
				} else {
					feature.RolloutPercent = 0
				}
				continue
			}

			// Try parsing as percentage
			if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
				feature.Enabled = p > 0
				feature.RolloutPercent = p
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "gamification.pong" -> "FEATURE_GAMIFICATION_PONG"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	// Check user overrides first
	if ctx != nil && ctx.UserID != "" {
		if userOverrides, ok := ff.userOverrides[ctx.UserID]; ok {
			if enabled, ok := userOverrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	// Check if feature is enabled at all
	if !feature.Enabled {
		return false
	}

	// Check time-based activation
	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	// Check rollout percentage
	if feature.RolloutPercent < 100 && ctx != nil && ctx.UserID != "" {
		return ff.isInRollout(ctx.UserID, featureName, feature.RolloutPercent)
	}

	return feature.RolloutPercent > 0
}

// isInRollout determines if a user is in the rollout percentage.
// Uses consistent hashing so users stay in their bucket.
func (ff *FeatureFlags) isInRollout(userID, featureName string, percent int) bool {
	// Create a consistent hash for this user+feature combination
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write([]byte(userID))
	hash := h.Sum32()

	// Map to 0-99 range
	bucket := int(hash % 100)

	return bucket < percent
}

// GetVariant returns the A/B test variant for a user.
// Returns empty string if no variants defined or feature disabled.
func (ff *FeatureFlags) GetVariant(featureName string, ctx *FeatureContext) string {
	ff.mu.RLock()
	feature, ok := ff.features[featureName]
	hasVariants := ok && len(feature.Variants) > 0
	ff.mu.RUnlock()

	if !hasVariants || !ff.IsEnabled(featureName, ctx) {
		return ""
	}

	// Use consistent hashing to assign variant
	h := fnv.New32a()
	h.Write([]byte(featureName + "_variant"))
	h.Write([]byte(ctx.UserID))
	hash := h.Sum32()

	variantIndex := int(hash % uint32(len(feature.Variants)))
	return feature.Variants[variantIndex]
}

// SetUserOverride sets a feature override for a specific user.
// Useful for testing and debugging.
func (ff *FeatureFlags) SetUserOverride(userID, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.userOverrides[userID]; !ok {
		ff.userOverrides[userID] = make(map[string]bool)
	}
	ff.userOverrides[userID][featureName] = enabled
}

// ClearUserOverrides removes all overrides for a user.
func (ff *FeatureFlags) ClearUserOverrides(userID string) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.userOverrides, userID)
}

// SetRolloutPercent updates the rollout percentage for a feature.
// Thread-safe for live updates.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0

	return nil
}

// EnableFeature enables a feature at 100% rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		// Return a copy
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Convenience methods for common checks ---

// GamificationEnabled checks if any gamification features are enabled.
func (ff *FeatureFlags) GamificationEnabled(ctx *FeatureContext) bool {
	return ff.IsEnabled(FeatureGamificationStreaks, ctx) ||
		ff.IsEnabled(FeatureGamificationAchievements, ctx) ||
		ff.IsEnabled(FeatureGamificationPong, ctx)
}

// NotificationsEnabled checks if any notifications are enabled.
func (ff *FeatureFlags) NotificationsEnabled(ctx *FeatureContext) bool {
	return ff.IsEnabled(FeatureNotifyAchievements, ctx) ||
		ff.IsEnabled(FeatureNotifyStreaks, ctx) ||
		ff.IsEnabled(FeatureNotifyPongRecords, ctx)
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
