package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"time"

	"github.com/aouyang1/climbcraft/catalog"
	appconfig "github.com/aouyang1/climbcraft/config"
	"github.com/aouyang1/climbcraft/util"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	mapset "github.com/deckarep/golang-set/v2"
)

const remoteCheckInterval = 1 * time.Hour

// objectStore is the part of the bucket the remote manager reads.
type objectStore interface {
	ListKeys(ctx context.Context) ([]string, error)
	Download(ctx context.Context, key string, w io.WriterAt) error
}

// s3Store reads objects from one S3 bucket.
type s3Store struct {
	client *s3.Client
	bucket string
}

func (s *s3Store) ListKeys(ctx context.Context) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to list s3 bucket, %s, %w", s.bucket, err)
		}
		for object := range slices.Values(page.Contents) {
			keys = append(keys, aws.ToString(object.Key))
		}
	}
	return keys, nil
}

func (s *s3Store) Download(ctx context.Context, key string, w io.WriterAt) error {
	downloader := manager.NewDownloader(s.client)
	if _, err := downloader.Download(ctx, w, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("unable to download object from s3, %s, %w", key, err)
	}
	return nil
}

// RemoteManager mirrors hold images from an S3 bucket into the holds
// directory. An object key "<group>/<name>.png" lands in the group's directory.
type RemoteManager struct {
	objects objectStore

	profile  string
	s3Bucket string

	outputPath string

	registry holdRegistry

	// keys seen on the previous listing; only these are removed when they vanish
	remoteKeys mapset.Set[string]

	Updated chan struct{}
}

func NewRemoteManager(ctx context.Context, cfg *appconfig.Config, registry holdRegistry) (*RemoteManager, error) {
	if cfg.S3Bucket == "" {
		return nil, errors.New("no s3 bucket provided in environment variable CLIMBCRAFT_S3_BUCKET")
	}

	var opts []func(*config.LoadOptions) error
	if cfg.AWSProfile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.AWSProfile))
	}

	ctxCfg, cancelCfg := context.WithTimeout(ctx, 3*time.Second)
	awsCfg, err := config.LoadDefaultConfig(ctxCfg, opts...)
	cancelCfg()
	if err != nil {
		return nil, err
	}

	rm := newRemoteManager(&s3Store{client: s3.NewFromConfig(awsCfg), bucket: cfg.S3Bucket}, cfg.HoldsPath(), registry)
	rm.profile = cfg.AWSProfile
	rm.s3Bucket = cfg.S3Bucket
	return rm, nil
}

func newRemoteManager(objects objectStore, outputPath string, registry holdRegistry) *RemoteManager {
	return &RemoteManager{
		objects:    objects,
		outputPath: outputPath,
		registry:   registry,
		remoteKeys: mapset.NewSet[string](),
		Updated:    make(chan struct{}, 1),
	}
}

// objectGroup returns the group an object key belongs to, or "" for a loose image.
func objectGroup(key string) string {
	dir := path.Dir(key)
	if dir == "." {
		return ""
	}
	return path.Base(dir)
}

// localPath maps an object key into the holds directory, flattening any
// prefix deeper than one level.
func (r *RemoteManager) localPath(key string) string {
	name := path.Base(key)
	if group := objectGroup(key); group != "" {
		return filepath.Join(r.outputPath, group, name)
	}
	return filepath.Join(r.outputPath, name)
}

func (r *RemoteManager) getRemoteKeys(ctx context.Context) (mapset.Set[string], error) {
	listed, err := r.objects.ListKeys(ctx)
	if err != nil {
		return nil, err
	}

	keys := mapset.NewSet[string]()
	for _, key := range listed {
		if !util.IsSupportedImage(key) {
			continue
		}
		if group := objectGroup(key); !catalog.ValidPathName(path.Base(key)) || (group != "" && !catalog.ValidPathName(group)) {
			slog.Warn("skipping s3 object outside the holds layout", "key", key)
			continue
		}
		keys.Add(key)
	}

	if keys.Cardinality() == 0 {
		slog.Info("no remote hold images found")
	}
	return keys, nil
}

func (r *RemoteManager) DownloadObject(ctx context.Context, key string) error {
	dst := r.localPath(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("unable to create directory for s3 download, %s, %w", key, err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("unable to create file for s3 download, %s, %w", key, err)
	}
	defer f.Close()

	if err := r.objects.Download(ctx, key, f); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}

func (r *RemoteManager) SyncFolder(ctx context.Context) error {
	remoteKeys, err := r.getRemoteKeys(ctx)
	if err != nil {
		return err
	}

	var toDownload []string
	for key := range remoteKeys.Iter() {
		if _, err := os.Stat(r.localPath(key)); os.IsNotExist(err) {
			toDownload = append(toDownload, key)
		}
	}
	slices.Sort(toDownload)
	toDelete := r.remoteKeys.Difference(remoteKeys).ToSlice()

	if len(toDelete) > 0 {
		slog.Info("deleting local hold images", "count", len(toDelete), "names", toDelete)
		for name := range slices.Values(toDelete) {
			if err := os.Remove(r.localPath(name)); err != nil && !os.IsNotExist(err) {
				slog.Warn("unable to remove local file", "error", err)
			}
		}
	}
	if len(toDownload) > 0 {
		slog.Info("adding hold images", "count", len(toDownload), "names", toDownload)
		for key := range slices.Values(toDownload) {
			if err := r.DownloadObject(ctx, key); err != nil {
				slog.Warn("error while downloading s3 object", "key", key, "error", err)
				continue
			}

			// loose images are assigned to groups by the local scan
			group := objectGroup(key)
			if group == "" {
				continue
			}
			if err := r.registry.RegisterHoldIfNotExists(group, util.AssetName(key)); err != nil {
				slog.Warn("error while registering hold", "key", key, "error", err)
			}
		}
	}
	r.remoteKeys = remoteKeys

	if len(toDelete) > 0 || len(toDownload) > 0 {
		select {
		case r.Updated <- struct{}{}:
		default:
		}
	}
	return nil
}

func (r *RemoteManager) Run(ctx context.Context) {
	slog.Info("mirroring hold images from s3", "bucket", r.s3Bucket, "profile", r.profile)
	ticker := time.NewTicker(remoteCheckInterval)
	defer ticker.Stop()

	for {
		syncCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
		if err := r.SyncFolder(syncCtx); err != nil {
			slog.Warn("error while syncing with remote", "error", err)
		}
		cancel()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
