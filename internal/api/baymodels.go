package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/imamik/baystack/internal/bay"
	"github.com/imamik/baystack/internal/store"
)

// BayModelList is the reply of GET /v1/baymodels.
type BayModelList struct {
	BayModels []*bay.ClusterTemplate `json:"baymodels"`
}

func createBayModelHandler(templates store.ClusterTemplateStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		t := new(bay.ClusterTemplate)
		if err := c.Bind(t); err != nil {
			return badRequest("can not understand the requested json", err)
		}
		if err := t.Validate(); err != nil {
			return badRequest(oneLine(err), err)
		}
		if t.UUID == "" {
			t.UUID = uuid.NewString()
		}

		if err := templates.CreateClusterTemplate(c.Request().Context(), t); err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, t)
	}
}

func listBayModelsHandler(templates store.ClusterTemplateStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := templates.ListClusterTemplates(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, BayModelList{BayModels: list})
	}
}

func getBayModelHandler(templates store.ClusterTemplateStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		t, err := templates.GetClusterTemplate(c.Request().Context(), c.Param("uuid"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, t)
	}
}

func deleteBayModelHandler(templates store.ClusterTemplateStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := templates.DeleteClusterTemplate(c.Request().Context(), c.Param("uuid")); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}
