package mockapi

import (
	"context"
	"io"
	"net/http"

	"github.com/kcmvp/clanadmin"
	"github.com/kcmvp/clanadmin/internal"
	"github.com/labstack/echo/v4"
	"github.com/samber/mo"
	"github.com/tidwall/gjson"
)

// Bind validates the JSON body against schema and stores the resulting
// object in the request context. Failures answer 400 with {"error": ...}.
func Bind(schema *clanadmin.Schema) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			bts := mo.TupleToResult(io.ReadAll(c.Request().Body))
			if bts.IsError() {
				return echo.NewHTTPError(http.StatusBadRequest, "failed to read request body")
			}
			body := string(bts.MustGet())
			if !gjson.Valid(body) {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON format")
			}
			result := schema.Check(body)
			if result.IsError() {
				return echo.NewHTTPError(http.StatusBadRequest, result.Error().Error())
			}
			req := c.Request()
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), internal.PayloadKey, result.MustGet())))
			return next(c)
		}
	}
}

// Payload returns the object stored by Bind, or nil on routes without it.
func Payload(c echo.Context) clanadmin.Object {
	if obj, ok := c.Request().Context().Value(internal.PayloadKey).(clanadmin.Object); ok {
		return obj
	}
	return nil
}
