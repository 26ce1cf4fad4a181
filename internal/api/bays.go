package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imamik/baystack/internal/bay"
	"github.com/imamik/baystack/internal/store"
)

// Conductor starts bay lifecycle operations. Operations run in the
// background; the returned channels report their result.
type Conductor interface {
	CreateBay(ctx context.Context, b *bay.Bay, timeout *int) (*bay.Bay, <-chan error, error)
	ScaleBay(ctx context.Context, uuid string, count int) (<-chan error, error)
	DeleteBay(ctx context.Context, uuid string) (<-chan error, error)
}

// CreateBayRequest is the body of POST /v1/bays.
type CreateBayRequest struct {
	Name         string `json:"name"`
	BayModelID   string `json:"baymodel_id"`
	NodeCount    *int   `json:"node_count,omitempty"`
	DiscoveryURL string `json:"discovery_url,omitempty"`

	// BayCreateTimeout in minutes. Zero disables the stack timeout, unset
	// uses the server default.
	BayCreateTimeout *int `json:"bay_create_timeout,omitempty"`
}

// ScaleBayRequest is the body of PATCH /v1/bays/:uuid.
type ScaleBayRequest struct {
	NodeCount *int `json:"node_count"`
}

// BayList is the reply of GET /v1/bays.
type BayList struct {
	Bays []*bay.Bay `json:"bays"`
}

func createBayHandler(svc Conductor) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(CreateBayRequest)
		if err := c.Bind(req); err != nil {
			return badRequest("can not understand the requested json", err)
		}

		b := &bay.Bay{
			Name:         req.Name,
			BayModelID:   req.BayModelID,
			NodeCount:    req.NodeCount,
			DiscoveryURL: req.DiscoveryURL,
		}
		created, _, err := svc.CreateBay(c.Request().Context(), b, req.BayCreateTimeout)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusAccepted, created)
	}
}

func listBaysHandler(bays store.BayStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := bays.ListBays(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, BayList{Bays: list})
	}
}

func getBayHandler(bays store.BayStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		b, err := bays.GetBay(c.Request().Context(), c.Param("uuid"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, b)
	}
}

func scaleBayHandler(svc Conductor, bays store.BayStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(ScaleBayRequest)
		if err := c.Bind(req); err != nil {
			return badRequest("can not understand the requested json", err)
		}
		if req.NodeCount == nil {
			return badRequest("node_count is required", nil)
		}

		ctx := c.Request().Context()
		uuid := c.Param("uuid")
		if _, err := svc.ScaleBay(ctx, uuid, *req.NodeCount); err != nil {
			return err
		}
		b, err := bays.GetBay(ctx, uuid)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusAccepted, b)
	}
}

func deleteBayHandler(svc Conductor) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := svc.DeleteBay(c.Request().Context(), c.Param("uuid")); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}
