package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/J-tt/ytsm/internal/domain"
	"github.com/J-tt/ytsm/internal/domain/models"
	"github.com/J-tt/ytsm/internal/domain/services"
	"github.com/J-tt/ytsm/internal/httputil"
)

const (
	channelURL  = "https://www.youtube.com/channel/UC123"
	handleURL   = "https://www.youtube.com/@maker"
	playlistURL = "https://www.youtube.com/playlist?list=PL9"
)

// seedResolver teaches the fake resolver one channel (by id and by handle)
// and one playlist owned by it.
func seedResolver(r *fakeResolver) {
	meta := &services.ChannelMetadata{
		ChannelID:        "UC123",
		Name:             "Maker Lab",
		Description:      "builds things",
		UploadPlaylistID: "UU123",
		IconDefault:      "icon-small",
		IconBest:         "icon-big",
	}
	r.refs[channelURL] = services.URLReference{Kind: services.URLChannelID, ExternalID: "UC123"}
	r.refs[handleURL] = services.URLReference{Kind: services.URLChannelCustom, ExternalID: "@maker"}
	r.refs[playlistURL] = services.URLReference{Kind: services.URLPlaylist, ExternalID: "PL9"}
	r.channels["UC123"] = meta
	r.channels["@maker"] = meta
	r.playlists["PL9"] = &services.PlaylistMetadata{
		PlaylistID:  "PL9",
		ChannelID:   "UC123",
		Name:        "Weekly Mix",
		Description: "curated",
		IconDefault: "pl-small",
		IconBest:    "pl-big",
	}
}

func TestSubscriptionService_CreateFromChannelURL(t *testing.T) {
	env := newTestEnv()
	seedResolver(env.resolver)
	ctx := context.Background()

	sub, err := env.subSvc.CreateSubscription(ctx, &services.CreateSubscriptionRequest{
		UserID: "u1",
		URL:    channelURL,
	})
	if err != nil {
		t.Fatalf("CreateSubscription failed: %v", err)
	}

	// A channel subscription follows the uploads playlist and mirrors the
	// channel's metadata.
	if sub.Name != "Maker Lab" {
		t.Errorf("name = %s, want Maker Lab", sub.Name)
	}
	if sub.PlaylistID != "UU123" {
		t.Errorf("playlist = %s, want UU123", sub.PlaylistID)
	}
	if sub.IconBest != "icon-big" {
		t.Errorf("icon = %s, want icon-big", sub.IconBest)
	}

	if len(env.channels.channels) != 1 {
		t.Fatalf("repo holds %d channels, want 1", len(env.channels.channels))
	}
	if env.channels.channels[0].ChannelID != "UC123" {
		t.Errorf("channel external id = %s, want UC123", env.channels.channels[0].ChannelID)
	}
	if sub.ChannelID != env.channels.channels[0].ID {
		t.Errorf("subscription channel = %s, want %s", sub.ChannelID, env.channels.channels[0].ID)
	}
}

func TestSubscriptionService_CreateFromPlaylistURL(t *testing.T) {
	env := newTestEnv()
	seedResolver(env.resolver)
	ctx := context.Background()

	sub, err := env.subSvc.CreateSubscription(ctx, &services.CreateSubscriptionRequest{
		UserID: "u1",
		URL:    playlistURL,
	})
	if err != nil {
		t.Fatalf("CreateSubscription failed: %v", err)
	}

	// A playlist subscription carries the playlist's own metadata but still
	// links to the owning channel.
	if sub.Name != "Weekly Mix" {
		t.Errorf("name = %s, want Weekly Mix", sub.Name)
	}
	if sub.PlaylistID != "PL9" {
		t.Errorf("playlist = %s, want PL9", sub.PlaylistID)
	}
	if len(env.channels.channels) != 1 || env.channels.channels[0].ChannelID != "UC123" {
		t.Fatalf("channel repo = %v, want one UC123 record", env.channels.channels)
	}
	if sub.ChannelID != env.channels.channels[0].ID {
		t.Errorf("subscription channel = %s, want %s", sub.ChannelID, env.channels.channels[0].ID)
	}
}

func TestSubscriptionService_ChannelDeduplication(t *testing.T) {
	env := newTestEnv()
	seedResolver(env.resolver)
	ctx := context.Background()

	first, err := env.subSvc.CreateSubscription(ctx, &services.CreateSubscriptionRequest{
		UserID: "u1",
		URL:    channelURL,
	})
	if err != nil {
		t.Fatalf("first ingestion failed: %v", err)
	}

	second, err := env.subSvc.CreateSubscription(ctx, &services.CreateSubscriptionRequest{
		UserID: "u1",
		URL:    playlistURL,
	})
	if err != nil {
		t.Fatalf("second ingestion failed: %v", err)
	}

	if len(env.channels.channels) != 1 {
		t.Fatalf("repo holds %d channels after two ingestions, want 1", len(env.channels.channels))
	}
	if first.ChannelID != second.ChannelID {
		t.Errorf("subscriptions point at different channels: %s vs %s", first.ChannelID, second.ChannelID)
	}
	if len(env.subs.subs) != 2 {
		t.Errorf("repo holds %d subscriptions, want 2", len(env.subs.subs))
	}

	// The second ingestion found the channel by canonical id without going
	// back to the provider.
	if env.resolver.channelFetches != 1 {
		t.Errorf("provider fetched %d times, want 1", env.resolver.channelFetches)
	}
}

func TestSubscriptionService_HandleResolvesToKnownChannel(t *testing.T) {
	env := newTestEnv()
	seedResolver(env.resolver)
	ctx := context.Background()

	if _, err := env.subSvc.CreateSubscription(ctx, &services.CreateSubscriptionRequest{
		UserID: "u1", URL: channelURL,
	}); err != nil {
		t.Fatalf("first ingestion failed: %v", err)
	}

	// A handle URL must be fetched (the canonical id is unknown until the
	// provider answers) but then dedupe onto the existing record. The second
	// subscription goes under a folder since it mirrors the same channel
	// name.
	env.addFolder("f1", "u1", "Shelf", nil)
	sub, err := env.subSvc.CreateSubscription(ctx, &services.CreateSubscriptionRequest{
		UserID: "u1", URL: handleURL, ParentID: strPtr("f1"),
	})
	if err != nil {
		t.Fatalf("handle ingestion failed: %v", err)
	}

	if len(env.channels.channels) != 1 {
		t.Fatalf("repo holds %d channels, want 1", len(env.channels.channels))
	}
	if sub.ChannelID != env.channels.channels[0].ID {
		t.Errorf("subscription channel = %s, want %s", sub.ChannelID, env.channels.channels[0].ID)
	}
	if env.resolver.channelFetches != 2 {
		t.Errorf("provider fetched %d times, want 2", env.resolver.channelFetches)
	}
}

func TestSubscriptionService_CreateFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("empty url", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.subSvc.CreateSubscription(ctx, &services.CreateSubscriptionRequest{UserID: "u1"})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unrecognized url", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.subSvc.CreateSubscription(ctx, &services.CreateSubscriptionRequest{
			UserID: "u1", URL: "https://example.com/watch",
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("missing parent folder", func(t *testing.T) {
		env := newTestEnv()
		seedResolver(env.resolver)
		_, err := env.subSvc.CreateSubscription(ctx, &services.CreateSubscriptionRequest{
			UserID: "u1", URL: channelURL, ParentID: strPtr("ghost"),
		})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected not-found, got %v", err)
		}
		if len(env.subs.subs) != 0 {
			t.Errorf("subscription written despite missing parent")
		}
	})

	t.Run("provider down leaves nothing behind", func(t *testing.T) {
		env := newTestEnv()
		seedResolver(env.resolver)
		env.resolver.playlistErr = errors.New("upstream timeout")

		_, err := env.subSvc.CreateSubscription(ctx, &services.CreateSubscriptionRequest{
			UserID: "u1", URL: playlistURL,
		})
		if !errors.Is(err, domain.ErrProvider) {
			t.Fatalf("expected provider error, got %v", err)
		}
		if len(env.subs.subs) != 0 || len(env.channels.channels) != 0 {
			t.Errorf("state mutated on provider failure: %d subs, %d channels",
				len(env.subs.subs), len(env.channels.channels))
		}
	})

	t.Run("duplicate sibling name rolls back the channel insert", func(t *testing.T) {
		env := newTestEnv()
		seedResolver(env.resolver)
		env.addSub("existing", "u1", "maker lab", nil)

		_, err := env.subSvc.CreateSubscription(ctx, &services.CreateSubscriptionRequest{
			UserID: "u1", URL: channelURL,
		})
		var conflict *domain.ConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("expected ConflictError, got %v", err)
		}
		if len(env.channels.channels) != 0 {
			t.Errorf("channel survived the rolled-back transaction")
		}
		if len(env.subs.subs) != 1 {
			t.Errorf("repo holds %d subscriptions, want the pre-existing 1", len(env.subs.subs))
		}
	})
}

func TestSubscriptionService_ChannelInsertRace(t *testing.T) {
	env := newTestEnv()
	seedResolver(env.resolver)
	ctx := context.Background()

	// First attempt loses the unique-constraint race: the insert fails and,
	// once this transaction is rolled back, the concurrent winner's row is
	// visible. The retry must adopt that row instead of failing.
	winner := models.Channel{ID: "winner-internal", ChannelID: "UC123", Name: "Maker Lab"}
	env.channels.onCreate = func(c *models.Channel) error {
		return fmt.Errorf("channel %s: %w", c.ChannelID, domain.ErrConflict)
	}
	env.tx.afterRollback = func() {
		env.channels.channels = append(env.channels.channels, winner)
	}

	sub, err := env.subSvc.CreateSubscription(ctx, &services.CreateSubscriptionRequest{
		UserID: "u1", URL: channelURL,
	})
	if err != nil {
		t.Fatalf("CreateSubscription failed after retry: %v", err)
	}

	if len(env.channels.channels) != 1 {
		t.Fatalf("repo holds %d channels, want the winner's 1", len(env.channels.channels))
	}
	if sub.ChannelID != "winner-internal" {
		t.Errorf("subscription channel = %s, want winner-internal", sub.ChannelID)
	}
	if len(env.subs.subs) != 1 {
		t.Errorf("repo holds %d subscriptions, want 1", len(env.subs.subs))
	}
}

func TestSubscriptionService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("rename and move", func(t *testing.T) {
		env := newTestEnv()
		env.addFolder("f1", "u1", "Target", nil)
		env.addSub("s1", "u1", "Old", nil)

		sub, err := env.subSvc.UpdateSubscription(ctx, "u1", "s1", &services.UpdateSubscriptionRequest{
			Name:     strPtr("New"),
			ParentID: httputil.OptionalString{Present: true, Value: strPtr("f1")},
		})
		if err != nil {
			t.Fatalf("UpdateSubscription failed: %v", err)
		}
		if sub.Name != "New" {
			t.Errorf("name = %s, want New", sub.Name)
		}
		if sub.ParentID == nil || *sub.ParentID != "f1" {
			t.Errorf("parent = %v, want f1", sub.ParentID)
		}
	})

	t.Run("move to missing folder", func(t *testing.T) {
		env := newTestEnv()
		env.addSub("s1", "u1", "A", nil)

		_, err := env.subSvc.UpdateSubscription(ctx, "u1", "s1", &services.UpdateSubscriptionRequest{
			ParentID: httputil.OptionalString{Present: true, Value: strPtr("ghost")},
		})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected not-found, got %v", err)
		}
	})

	t.Run("rename onto a sibling", func(t *testing.T) {
		env := newTestEnv()
		env.addSub("s1", "u1", "A", nil)
		env.addSub("s2", "u1", "B", nil)

		_, err := env.subSvc.UpdateSubscription(ctx, "u1", "s2", &services.UpdateSubscriptionRequest{
			Name: strPtr("a"),
		})
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})
}

func TestSubscriptionService_Delete(t *testing.T) {
	env := newTestEnv()
	env.addSub("s1", "u1", "A", nil)
	ctx := context.Background()

	if err := env.subSvc.DeleteSubscription(ctx, "u1", "s1"); err != nil {
		t.Fatalf("DeleteSubscription failed: %v", err)
	}
	if len(env.subs.subs) != 0 {
		t.Errorf("subscription still present")
	}

	if err := env.subSvc.DeleteSubscription(ctx, "u1", "s1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not-found on second delete, got %v", err)
	}
}
