// Package firestore stores users, the user counter and notes in Cloud
// Firestore under users/<id>, counters/userCounter and notes/<id>.
package firestore

import (
	"context"
	"fmt"

	fs "cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection    = "users"
	notesCollection    = "notes"
	countersCollection = "counters"
	userCounterDoc     = "userCounter"
)

// NewClient connects to Firestore. An empty credentialsFile uses application
// default credentials, or the emulator when FIRESTORE_EMULATOR_HOST is set.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*fs.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("empty firestore project id")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	return fs.NewClient(ctx, projectID, opts...)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// Pinger reports whether Firestore answers a point read.
type Pinger struct {
	client *fs.Client
}

func NewPinger(c *fs.Client) *Pinger { return &Pinger{client: c} }

func (p *Pinger) Ping(ctx context.Context) error {
	_, err := p.client.Collection(countersCollection).Doc(userCounterDoc).Get(ctx)
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}
