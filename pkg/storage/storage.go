// Package storage provides blob storage operations with an Azure Blob Storage implementation.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/lifecycle"
)

// System manages blob operations against a single container.
type System interface {
	lifecycle.ReadinessChecker

	// Container returns the container name this system operates on.
	Container() string
	// Start registers a startup hook that verifies (or creates) the container.
	Start(lc *lifecycle.Coordinator) error
	// Upload streams data to a blob at the given key with the specified content type.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download returns a stream for the blob at the given key. The caller must close the reader.
	// Returns ErrNotFound if the blob does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Exists reports whether a blob exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
	// URL returns the absolute blob URL for key.
	URL(key string) (string, error)
}

// Options selects the container a System binds to.
type Options struct {
	Container string
	// Create makes Start create the container when absent. Read-only
	// containers leave it false and only verify existence.
	Create bool
}

type azure struct {
	client    *azblob.Client
	container string
	create    bool
	logger    *slog.Logger
	ready     atomic.Bool
}

// NewClient builds the shared Azure client from cfg. A connection string takes
// precedence; otherwise the account URL is paired with DefaultAzureCredential.
func NewClient(cfg *Config) (*azblob.Client, error) {
	if cfg.UsesConnectionString() {
		client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
		if err != nil {
			return nil, fmt.Errorf("create storage client: %w", err)
		}
		return client, nil
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("create storage credential: %w", err)
	}

	client, err := azblob.NewClient(cfg.AccountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return client, nil
}

// New creates a storage system bound to one container of client.
// It does not contact the service until Start is called.
func New(client *azblob.Client, opts Options, logger *slog.Logger) (System, error) {
	if client == nil {
		return nil, fmt.Errorf("storage client required")
	}
	if opts.Container == "" {
		return nil, fmt.Errorf("container name required")
	}

	return &azure{
		client:    client,
		container: opts.Container,
		create:    opts.Create,
		logger:    logger.With("system", "storage", "container", opts.Container),
	}, nil
}

func (a *azure) Container() string {
	return a.container
}

func (a *azure) Ready() bool {
	return a.ready.Load()
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting storage system")
	lc.AddCheck(a)

	lc.OnStartup(func() {
		if err := a.ensureContainer(lc.Context()); err != nil {
			a.logger.Error("storage container initialization failed", "error", err)
			return
		}

		a.ready.Store(true)
		a.logger.Info("storage container ready")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		a.ready.Store(false)
	})

	return nil
}

func (a *azure) ensureContainer(ctx context.Context) error {
	containerClient := a.client.ServiceClient().NewContainerClient(a.container)

	_, err := containerClient.GetProperties(ctx, nil)
	if err == nil {
		return nil
	}
	if !bloberror.HasCode(err, bloberror.ContainerNotFound) {
		return err
	}
	if !a.create {
		return ErrContainerMissing
	}

	_, err = a.client.CreateContainer(ctx, a.container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return err
	}
	return nil
}

func (a *azure) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	_, err := a.client.UploadStream(ctx, a.container, key, reader, opts)
	if err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}

	return nil
}

func (a *azure) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download blob %s: %w", key, err)
	}

	return resp.Body, nil
}

func (a *azure) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	_, err := a.blobClient(key).GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check blob existence %s: %w", key, err)
	}

	return true, nil
}

func (a *azure) URL(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return a.blobClient(key).URL(), nil
}

func (a *azure) blobClient(key string) *blob.Client {
	return a.client.
		ServiceClient().
		NewContainerClient(a.container).
		NewBlobClient(key)
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
