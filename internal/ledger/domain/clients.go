package domain

import "context"

type ClientRepository interface {
	GetClient(ctx context.Context, id int64) (Client, error)
	ClientExists(ctx context.Context, id int64) (bool, error)
	SaveClient(ctx context.Context, client Client) (Client, error)
}

type Client struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
