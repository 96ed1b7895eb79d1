package resources

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/blueprints/internal/platform/s3"
	"github.com/imamik/blueprints/internal/util/naming"
	"github.com/imamik/blueprints/pkg/blueprint"
)

// ownerObject is written into every bucket created for a blueprint.
const ownerObject = ".blueprint"

// Bucket is the resolved value of a BucketProvider.
type Bucket struct {
	Name     string
	Region   string
	Endpoint string
}

// BucketProvider provides an Object Storage bucket as a named resource.
type BucketProvider struct {
	Buckets s3.BucketManager

	// Key is the registry key the provider is registered under. It names
	// the bucket when BucketName is empty.
	Key string

	BucketName string
	Region     string
	Endpoint   string
}

var _ blueprint.ResourceProvider = (*BucketProvider)(nil)

// Provide implements blueprint.ResourceProvider.
func (p *BucketProvider) Provide(rc *blueprint.ResourceContext) (any, error) {
	if p.Buckets == nil {
		return nil, errors.New("bucket provider has no storage client")
	}

	name := p.BucketName
	if name == "" {
		if p.Key == "" {
			return nil, errors.New("bucket provider needs a key or bucket name")
		}
		name = naming.Bucket(rc.Stack.ID, p.Key)
	}

	region := p.Region
	if region == "" {
		region = rc.Stack.Region
	}
	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = s3.Endpoint(region)
	}

	if rc.Observer != nil {
		rc.Observer.Printf("[resources] ensuring bucket %s", name)
	}
	existed, err := p.Buckets.BucketExists(rc, name)
	if err != nil {
		return nil, err
	}
	if err := p.Buckets.EnsureBucket(rc, name); err != nil {
		return nil, err
	}
	if err := p.Buckets.PutObject(rc, name, ownerObject, []byte(rc.Stack.ID)); err != nil {
		err = fmt.Errorf("failed to record bucket owner: %w", err)
		if !existed {
			if delErr := p.Buckets.DeleteBucket(context.WithoutCancel(rc), name); delErr != nil {
				err = errors.Join(err, delErr)
			}
		}
		return nil, err
	}

	return &Bucket{Name: name, Region: region, Endpoint: endpoint}, nil
}
