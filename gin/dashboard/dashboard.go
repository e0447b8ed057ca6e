// Package dashboard serves the route components as HTML (or JSON on request).
//
// The dashboard is a single-operator console: it holds one API session through
// the session gate, so browser requests carry no credentials of their own.
package dashboard

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/kcmvp/clanadmin/admin"
	"github.com/kcmvp/clanadmin/app"
	"github.com/kcmvp/clanadmin/entity"
	"github.com/kcmvp/clanadmin/gateway"
	"github.com/kcmvp/clanadmin/internal"
	"github.com/kcmvp/clanadmin/selection"
	"github.com/kcmvp/clanadmin/session"
	"github.com/kcmvp/clanadmin/view"
	"github.com/samber/lo"
)

//go:embed templates/*.html
var templates embed.FS

// loader is satisfied by every view.Page.
type loader interface {
	Load(ctx context.Context, nav session.Navigator) (view.Table, session.State)
}

type route struct {
	Path     string
	Title    string
	Resource string
	page     loader
}

type Dashboard struct {
	gate     *session.Gate
	res      *admin.Resources
	products *view.Page[entity.Product]
	routes   []route
	logger   *slog.Logger
	flashes  sessions.Store
}

func New(gate *session.Gate, res *admin.Resources, cdn view.CDN, logger *slog.Logger, opts ...Option) *Dashboard {
	if logger == nil {
		logger = app.Discard()
	}
	products := view.ProductsPage(gate, res.Products, selection.New[entity.Product, int64](), cdn)
	d := &Dashboard{
		gate:     gate,
		res:      res,
		products: products,
		logger:   logger,
		flashes:  randomFlashStore(),
		routes: []route{
			{Path: "/", Title: "Products", Resource: admin.KeyProducts, page: products},
			{Path: "/customers", Title: "Customers", Resource: admin.KeyCustomers, page: view.CustomersPage(gate, res.Customers)},
			{Path: "/orders", Title: "Orders", Resource: admin.KeyOrders, page: view.OrdersPage(gate, res.Orders)},
			{Path: "/discounts", Title: "Discounts", Resource: admin.KeyDiscounts, page: view.DiscountsPage(gate, res.Discounts)},
			{Path: "/promo", Title: "Promo codes", Resource: admin.KeyDiscounts, page: view.PromoPage(gate, res.Discounts)},
			{Path: "/users", Title: "Users", Resource: admin.KeyUsers, page: view.UsersPage(gate, res.Users)},
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Router builds the gin engine.
func (d *Dashboard) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), d.logRequests(), sameOrigin())
	r.SetHTMLTemplate(template.Must(template.New("dashboard").ParseFS(templates, "templates/*.html")))

	r.GET(d.gate.LoginPath(), d.loginForm)
	r.POST(d.gate.LoginPath(), d.login)

	// Pages mount the gate themselves while loading.
	for _, rt := range d.routes {
		r.GET(rt.Path, d.show(rt))
	}
	authed := r.Group("/", d.requireSession())
	authed.POST("/users", d.createUser)
	authed.POST("/products/select/:id", d.toggle)
	authed.POST("/products/select-all", d.toggleAll)
	authed.POST("/refresh/:resource", d.refresh)
	return r
}

func (d *Dashboard) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		d.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// redirector sends the browser wherever the gate navigates.
type redirector struct {
	c    *gin.Context
	code int
}

func (r redirector) Navigate(path string) {
	r.c.Redirect(r.code, path)
}

func (d *Dashboard) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if d.gate.Mount(c.Request.Context(), redirector{c: c, code: http.StatusFound}) != session.Authenticated {
			c.Abort()
			return
		}
		c.Next()
	}
}

type navItem struct {
	Path  string
	Title string
}

type pageData struct {
	Title    string
	Path     string
	Resource string
	User     string
	Query    string
	Error    string
	Notices  []string
	Alerts   []string
	Email    string
	Nav      []navItem
	Table    view.Table
}

func (d *Dashboard) data(rt route) pageData {
	data := pageData{
		Title:    rt.Title,
		Path:     rt.Path,
		Resource: rt.Resource,
		Nav: lo.Map(d.routes, func(r route, _ int) navItem {
			return navItem{Path: r.Path, Title: r.Title}
		}),
	}
	if u, ok := d.gate.User().Get(); ok {
		data.User = u.DisplayName()
	}
	return data
}

func (d *Dashboard) render(c *gin.Context, code int, data pageData) {
	c.Negotiate(code, gin.Negotiate{
		Offered:  []string{gin.MIMEHTML, gin.MIMEJSON},
		HTMLName: "table.html",
		HTMLData: data,
		JSONData: gin.H{"table": data.Table, "error": data.Error, "notices": data.Notices, "alerts": data.Alerts},
	})
}

func (d *Dashboard) show(rt route) gin.HandlerFunc {
	return func(c *gin.Context) {
		params, err := internal.Params(lo.SliceToMap(c.Params, func(p gin.Param) (string, string) {
			return p.Key, p.Value
		}), c.Request.URL.Query())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		table, state := rt.page.Load(c.Request.Context(), redirector{c: c, code: http.StatusFound})
		if state != session.Authenticated {
			c.Abort()
			return
		}
		data := d.data(rt)
		data.Notices, data.Alerts = d.takeFlashes(c)
		data.Query = params["q"]
		data.Table = view.Filter(table, data.Query)
		d.render(c, http.StatusOK, data)
	}
}

func (d *Dashboard) route(resource string) route {
	rt, _ := lo.Find(d.routes, func(r route) bool { return r.Resource == resource })
	return rt
}

// status maps a failed call onto the response code shown with its message.
func status(err error) int {
	var apiErr *gateway.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Status
	case errors.Is(err, admin.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func (d *Dashboard) loginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", pageData{Title: "Sign in", Path: d.gate.LoginPath()})
}

func (d *Dashboard) login(c *gin.Context) {
	creds := admin.Credentials{Email: c.PostForm("email"), Password: c.PostForm("password")}
	err := d.gate.SignIn(c.Request.Context(), creds, redirector{c: c, code: http.StatusSeeOther})
	if err == nil {
		return
	}
	c.Negotiate(status(err), gin.Negotiate{
		Offered:  []string{gin.MIMEHTML, gin.MIMEJSON},
		HTMLName: "login.html",
		HTMLData: pageData{Title: "Sign in", Path: d.gate.LoginPath(), Email: creds.Email, Error: err.Error()},
		JSONData: gin.H{"error": err.Error()},
	})
}

func (d *Dashboard) createUser(c *gin.Context) {
	u := admin.NewUser{Email: c.PostForm("email"), Password: c.PostForm("password")}
	if name := c.PostForm("name"); name != "" {
		u.Name = &name
	}
	created, err := d.res.CreateUser(c.Request.Context(), u)
	if err != nil {
		d.logger.Info("create user failed", "email", u.Email, "err", err)
		rt := d.route(admin.KeyUsers)
		data := d.data(rt)
		data.Error = err.Error()
		data.Table, _ = rt.page.Load(c.Request.Context(), redirector{c: c, code: http.StatusFound})
		d.render(c, status(err), data)
		return
	}
	d.flash(c, flashNotice, "Created user "+created.Email)
	c.Redirect(http.StatusSeeOther, "/users")
}

func (d *Dashboard) toggle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	d.products.Selection().Toggle(id)
	c.Redirect(http.StatusSeeOther, "/")
}

func (d *Dashboard) toggleAll(c *gin.Context) {
	d.products.Selection().ToggleAll(d.products.Items())
	c.Redirect(http.StatusSeeOther, "/")
}

// refresh refetches one resource. A failed refetch is flashed and the list
// keeps showing its last data.
func (d *Dashboard) refresh(c *gin.Context) {
	key := c.Param("resource")
	err := d.res.Refetch(c.Request.Context(), key)
	if errors.Is(err, admin.ErrUnknownResource) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		d.logger.Warn("refresh failed", "resource", key, "err", err)
		d.flash(c, flashAlert, "Refresh failed: "+err.Error())
	}
	c.Redirect(http.StatusSeeOther, d.route(key).Path)
}

// Selection exposes the product checkboxes.
func (d *Dashboard) Selection() *selection.Set[entity.Product, int64] {
	return d.products.Selection()
}
