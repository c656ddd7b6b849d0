package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/J-tt/ytsm/internal/domain"
	"github.com/J-tt/ytsm/internal/domain/models"
	"github.com/J-tt/ytsm/internal/domain/repositories"
	"github.com/J-tt/ytsm/internal/domain/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// fakeFolderRepo is an in-memory FolderRepository.
type fakeFolderRepo struct {
	folders []models.Folder
}

func (r *fakeFolderRepo) Create(_ context.Context, folder *models.Folder) error {
	r.folders = append(r.folders, *folder)
	return nil
}

func (r *fakeFolderRepo) GetByID(_ context.Context, id, userID string) (*models.Folder, error) {
	for i := range r.folders {
		if r.folders[i].ID == id && r.folders[i].UserID == userID {
			f := r.folders[i]
			return &f, nil
		}
	}
	return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
}

func (r *fakeFolderRepo) Update(_ context.Context, folder *models.Folder) error {
	for i := range r.folders {
		if r.folders[i].ID == folder.ID && r.folders[i].UserID == folder.UserID {
			r.folders[i] = *folder
			return nil
		}
	}
	return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
}

func (r *fakeFolderRepo) Delete(_ context.Context, id, userID string) error {
	for i := range r.folders {
		if r.folders[i].ID == id && r.folders[i].UserID == userID {
			r.folders = append(r.folders[:i], r.folders[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
}

func (r *fakeFolderRepo) ListChildren(_ context.Context, parentID *string, userID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if f.UserID == userID && sameParent(f.ParentID, parentID) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) GetAllByUser(_ context.Context, userID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

// fakeSubRepo is an in-memory SubscriptionRepository.
type fakeSubRepo struct {
	subs []models.Subscription
}

func (r *fakeSubRepo) Create(_ context.Context, sub *models.Subscription) error {
	r.subs = append(r.subs, *sub)
	return nil
}

func (r *fakeSubRepo) GetByID(_ context.Context, id, userID string) (*models.Subscription, error) {
	for i := range r.subs {
		if r.subs[i].ID == id && r.subs[i].UserID == userID {
			s := r.subs[i]
			return &s, nil
		}
	}
	return nil, fmt.Errorf("subscription %s: %w", id, domain.ErrNotFound)
}

func (r *fakeSubRepo) Update(_ context.Context, sub *models.Subscription) error {
	for i := range r.subs {
		if r.subs[i].ID == sub.ID && r.subs[i].UserID == sub.UserID {
			r.subs[i] = *sub
			return nil
		}
	}
	return fmt.Errorf("subscription %s: %w", sub.ID, domain.ErrNotFound)
}

func (r *fakeSubRepo) Delete(_ context.Context, id, userID string) error {
	for i := range r.subs {
		if r.subs[i].ID == id && r.subs[i].UserID == userID {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("subscription %s: %w", id, domain.ErrNotFound)
}

func (r *fakeSubRepo) ListByParent(_ context.Context, parentID *string, userID string) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, s := range r.subs {
		if s.UserID == userID && sameParent(s.ParentID, parentID) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubRepo) GetAllByUser(_ context.Context, userID string) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, s := range r.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

// fakeChannelRepo is an in-memory ChannelRepository enforcing the unique
// external channel id, like the real table does. onCreate intercepts the
// next Create call (used to simulate a concurrent insert winning the race).
type fakeChannelRepo struct {
	channels []models.Channel
	onCreate func(*models.Channel) error
}

func (r *fakeChannelRepo) Create(_ context.Context, channel *models.Channel) error {
	if r.onCreate != nil {
		fn := r.onCreate
		r.onCreate = nil
		if err := fn(channel); err != nil {
			return err
		}
	}
	for _, c := range r.channels {
		if c.ChannelID == channel.ChannelID {
			return fmt.Errorf("channel %s: %w", channel.ChannelID, domain.ErrConflict)
		}
	}
	r.channels = append(r.channels, *channel)
	return nil
}

func (r *fakeChannelRepo) GetByID(_ context.Context, id string) (*models.Channel, error) {
	for i := range r.channels {
		if r.channels[i].ID == id {
			c := r.channels[i]
			return &c, nil
		}
	}
	return nil, fmt.Errorf("channel %s: %w", id, domain.ErrNotFound)
}

func (r *fakeChannelRepo) GetByChannelID(_ context.Context, channelID string) (*models.Channel, error) {
	for i := range r.channels {
		if r.channels[i].ChannelID == channelID {
			c := r.channels[i]
			return &c, nil
		}
	}
	return nil, fmt.Errorf("channel %s: %w", channelID, domain.ErrNotFound)
}

// fakeVideoRepo records what it was asked for and answers from a canned
// slice, filtered by subscription id only.
type fakeVideoRepo struct {
	videos     []models.Video
	lastIDs    []string
	lastFilter models.VideoFilter
}

func (r *fakeVideoRepo) ListBySubscriptions(_ context.Context, subscriptionIDs []string, filter models.VideoFilter) ([]models.Video, error) {
	r.lastIDs = subscriptionIDs
	r.lastFilter = filter

	var out []models.Video
	for _, v := range r.videos {
		if slices.Contains(subscriptionIDs, v.SubscriptionID) {
			out = append(out, v)
		}
	}
	return out, nil
}

// fakeResolver answers classification and fetches from canned maps.
type fakeResolver struct {
	refs      map[string]services.URLReference
	channels  map[string]*services.ChannelMetadata
	playlists map[string]*services.PlaylistMetadata

	channelErr  error
	playlistErr error

	channelFetches int
}

func (r *fakeResolver) ClassifyURL(url string) (services.URLReference, error) {
	ref, ok := r.refs[url]
	if !ok {
		return services.URLReference{}, errors.New("unrecognized url")
	}
	return ref, nil
}

func (r *fakeResolver) FetchChannel(_ context.Context, _ services.URLKind, externalID string) (*services.ChannelMetadata, error) {
	r.channelFetches++
	if r.channelErr != nil {
		return nil, r.channelErr
	}
	meta, ok := r.channels[externalID]
	if !ok {
		return nil, fmt.Errorf("no channel %s", externalID)
	}
	return meta, nil
}

func (r *fakeResolver) FetchPlaylist(_ context.Context, playlistID string) (*services.PlaylistMetadata, error) {
	if r.playlistErr != nil {
		return nil, r.playlistErr
	}
	meta, ok := r.playlists[playlistID]
	if !ok {
		return nil, fmt.Errorf("no playlist %s", playlistID)
	}
	return meta, nil
}

// fakeTxManager runs the function directly, restoring repo state when it
// fails so rollback semantics hold in tests. afterRollback, when set, runs
// once after a rollback (used to emulate a concurrent committed write).
type fakeTxManager struct {
	folders  *fakeFolderRepo
	subs     *fakeSubRepo
	channels *fakeChannelRepo

	afterRollback func()
}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	folderSnap := slices.Clone(m.folders.folders)
	subSnap := slices.Clone(m.subs.subs)
	channelSnap := slices.Clone(m.channels.channels)

	if err := fn(ctx); err != nil {
		m.folders.folders = folderSnap
		m.subs.subs = subSnap
		m.channels.channels = channelSnap
		if m.afterRollback != nil {
			after := m.afterRollback
			m.afterRollback = nil
			after()
		}
		return err
	}
	return nil
}

// testEnv wires the services over the in-memory fakes.
type testEnv struct {
	folders  *fakeFolderRepo
	subs     *fakeSubRepo
	channels *fakeChannelRepo
	videos   *fakeVideoRepo
	resolver *fakeResolver
	tx       *fakeTxManager

	validator  *TreeValidator
	treeSvc    services.TreeService
	folderSvc  services.FolderService
	subSvc     services.SubscriptionService
	videoSvc   services.VideoService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		folders:  &fakeFolderRepo{},
		subs:     &fakeSubRepo{},
		channels: &fakeChannelRepo{},
		videos:   &fakeVideoRepo{},
		resolver: &fakeResolver{
			refs:      map[string]services.URLReference{},
			channels:  map[string]*services.ChannelMetadata{},
			playlists: map[string]*services.PlaylistMetadata{},
		},
	}
	env.tx = &fakeTxManager{folders: env.folders, subs: env.subs, channels: env.channels}

	logger := testLogger()
	env.validator = NewTreeValidator(env.folders, env.subs)
	env.treeSvc = NewTreeService(env.folders, env.subs, logger)
	env.folderSvc = NewFolderService(env.folders, env.subs, env.treeSvc, env.validator, env.tx, logger)
	env.subSvc = NewSubscriptionService(env.subs, env.folders, env.channels, env.resolver, env.validator, env.tx, logger)
	env.videoSvc = NewVideoService(env.videos, env.subs, env.treeSvc, logger)
	return env
}

// addFolder seeds a folder directly into the repo.
func (e *testEnv) addFolder(id, userID, name string, parentID *string) models.Folder {
	f := models.Folder{ID: id, UserID: userID, Name: name, ParentID: parentID}
	e.folders.folders = append(e.folders.folders, f)
	return f
}

// addSub seeds a subscription directly into the repo.
func (e *testEnv) addSub(id, userID, name string, parentID *string) models.Subscription {
	s := models.Subscription{ID: id, UserID: userID, Name: name, ParentID: parentID}
	e.subs.subs = append(e.subs.subs, s)
	return s
}

func strPtr(s string) *string { return &s }
