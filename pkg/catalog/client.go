// Package catalog is the read-only client for the books and users
// endpoints consumed by the screens.
package catalog

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/booknook-app/booknook/pkg/logger"
)

type Include string

const (
	IncludeCurrentLoans Include = "includeCurrentLoans"
	IncludeAllLoans     Include = "includeLoans"
)

type Client struct {
	client *resty.Client
}

func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: can't create cookie jar, %w", err)
	}
	return &Client{
		client: resty.New().SetBaseURL(baseURL).SetCookieJar(jar),
	}, nil
}

// SearchBooks lists books whose title matches the given fragment. An
// empty fragment lists the latest books.
func (c *Client) SearchBooks(ctx context.Context, token, titleLike string) ([]*Book, error) {
	result := struct {
		Data []*Book `json:"data"`
	}{}
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("title[like]", titleLike).
		SetResult(&result).
		Get("/books")
	if err != nil {
		logger.Log(ctx).Errorf("catalog: failed fetching books, %v", err)
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("catalog: books request rejected with status %d", resp.StatusCode())
	}
	return result.Data, nil
}

func (c *Client) GetBook(ctx context.Context, token string, id int) (*Book, error) {
	result := struct {
		Data *Book `json:"data"`
	}{}
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&result).
		Get("/books/" + strconv.Itoa(id))
	if err != nil {
		logger.Log(ctx).Errorf("catalog: failed fetching book `%d`, %v", id, err)
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("catalog: book request rejected with status %d", resp.StatusCode())
	}
	return result.Data, nil
}

// GetUser fetches a profile, optionally with its current or full loan
// history.
func (c *Client) GetUser(ctx context.Context, token, id string, include Include) (*User, error) {
	result := struct {
		Data *User `json:"data"`
	}{}
	req := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&result)
	if include != `` {
		req.SetQueryParam(string(include), "true")
	}
	resp, err := req.Get("/users/" + id)
	if err != nil {
		logger.Log(ctx).Errorf("catalog: failed fetching user `%s`, %v", id, err)
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("catalog: user request rejected with status %d", resp.StatusCode())
	}
	return result.Data, nil
}
