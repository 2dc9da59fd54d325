package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"planboard-cli/internal/model"
)

func idPath(prefix string, id model.ID) string {
	return prefix + "/" + url.PathEscape(strings.TrimSpace(id.String()))
}

// idValue sends numeric ids as JSON numbers, as the web client does.
func idValue(id model.ID) any {
	s := strings.TrimSpace(id.String())
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}

type loginResponse struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
	Token       string     `json:"token"`
}

func (r loginResponse) session() model.Session {
	tok := r.AccessToken
	if tok == "" {
		tok = r.Token
	}
	return model.Session{Token: tok, User: r.User}
}

// Login exchanges credentials for a session. The response may or may not be
// wrapped in a data envelope.
func (c *Client) Login(ctx context.Context, email, password string) (model.Session, error) {
	body := map[string]string{"email": strings.TrimSpace(email), "password": password}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/login", nil, body, rawOut{&raw}); err != nil {
		return model.Session{}, err
	}
	var wrapped struct {
		Data *loginResponse `json:"data"`
	}
	var resp loginResponse
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Data != nil {
		resp = *wrapped.Data
	} else if err := json.Unmarshal(raw, &resp); err != nil {
		return model.Session{}, fmt.Errorf("decode login response: %w", err)
	}
	sess := resp.session()
	if sess.Token == "" {
		return model.Session{}, errors.New("login response carried no token")
	}
	return sess, nil
}

func (c *Client) Me(ctx context.Context) (model.User, error) {
	var u model.User
	err := c.get(ctx, "/my-profile", nil, &u)
	return u, err
}

func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var out listData[model.Project]
	err := c.get(ctx, "/projects", nil, &out)
	return out, err
}

func (c *Client) GetProject(ctx context.Context, id model.ID) (model.Project, error) {
	var p model.Project
	err := c.get(ctx, idPath("/projects", id), nil, &p)
	return p, err
}

func (c *Client) CreateProject(ctx context.Context, in model.ProjectInput) (model.Project, error) {
	var p model.Project
	err := c.post(ctx, "/projects", in, &p)
	return p, err
}

func (c *Client) UpdateProject(ctx context.Context, id model.ID, in model.ProjectInput) (model.Project, error) {
	var p model.Project
	err := c.put(ctx, idPath("/projects", id), in, &p)
	return p, err
}

func (c *Client) DeleteProject(ctx context.Context, id model.ID) error {
	return c.delete(ctx, idPath("/projects", id), nil)
}

// ListProjectTypes lists every project type. activeOnly uses the public
// list, which the backend filters to active types.
func (c *Client) ListProjectTypes(ctx context.Context, activeOnly bool) ([]model.ProjectType, error) {
	path := "/project-types"
	if activeOnly {
		path = "/open/get-project-type-list"
	}
	var out listData[model.ProjectType]
	err := c.get(ctx, path, nil, &out)
	return out, err
}

func (c *Client) AddProjectType(ctx context.Context, in model.TypeInput) (model.ProjectType, error) {
	var t model.ProjectType
	err := c.post(ctx, "/add-project-type", in, &t)
	return t, err
}

func (c *Client) UpdateProjectType(ctx context.Context, id model.ID, in model.TypeInput) (model.ProjectType, error) {
	var t model.ProjectType
	err := c.post(ctx, idPath("/update-project-type", id), in, &t)
	return t, err
}

func (c *Client) ListPlanning(ctx context.Context, projectID model.ID) ([]model.PlanningItem, error) {
	var out listData[model.PlanningItem]
	err := c.get(ctx, idPath("/project-planning-list", projectID), nil, &out)
	return out, err
}

func (c *Client) AddPlanning(ctx context.Context, in model.PlanningInput) (model.PlanningItem, error) {
	var it model.PlanningItem
	err := c.post(ctx, "/add-project-planning", in, &it)
	return it, err
}

func (c *Client) UpdatePlanning(ctx context.Context, id model.ID, in model.PlanningInput) (model.PlanningItem, error) {
	var it model.PlanningItem
	err := c.post(ctx, idPath("/update-project-planning", id), in, &it)
	return it, err
}

func (c *Client) DeletePlanning(ctx context.Context, id model.ID) error {
	return c.delete(ctx, idPath("/delete-project-planning", id), nil)
}

func (c *Client) ListPlanningTypes(ctx context.Context) ([]model.PlanningType, error) {
	var out listData[model.PlanningType]
	err := c.get(ctx, "/planning-type-list", nil, &out)
	return out, err
}

func (c *Client) AddPlanningType(ctx context.Context, in model.TypeInput) (model.PlanningType, error) {
	var t model.PlanningType
	err := c.post(ctx, "/add-planning-types", in, &t)
	return t, err
}

func (c *Client) UpdatePlanningType(ctx context.Context, id model.ID, in model.TypeInput) (model.PlanningType, error) {
	var t model.PlanningType
	err := c.post(ctx, idPath("/update-planning-types", id), in, &t)
	return t, err
}

func (c *Client) DeletePlanningType(ctx context.Context, id model.ID) error {
	return c.delete(ctx, idPath("/delete-planning-types", id), nil)
}

func (c *Client) ListModules(ctx context.Context, projectID model.ID) ([]model.Module, error) {
	var out listData[model.Module]
	err := c.get(ctx, idPath("/project-module-list", projectID), nil, &out)
	return out, err
}

func (c *Client) AddModule(ctx context.Context, in model.ModuleInput) (model.Module, error) {
	var m model.Module
	err := c.post(ctx, "/add-project-module", in, &m)
	return m, err
}

func (c *Client) UpdateModule(ctx context.Context, id model.ID, in model.ModuleInput) (model.Module, error) {
	var m model.Module
	err := c.post(ctx, idPath("/update-project-module", id), in, &m)
	return m, err
}

func (c *Client) DeleteModule(ctx context.Context, id model.ID) error {
	return c.delete(ctx, idPath("/delete-project-module", id), nil)
}

func (c *Client) ListManpower(ctx context.Context, projectID model.ID) ([]model.ManpowerEntry, error) {
	var out listData[model.ManpowerEntry]
	err := c.get(ctx, idPath("/project-manpower-list", projectID), nil, &out)
	return out, err
}

func (c *Client) AddUserToProject(ctx context.Context, projectID, userID model.ID) error {
	body := map[string]any{"project_id": idValue(projectID), "user_id": idValue(userID)}
	return c.post(ctx, "/add-user-to-project", body, nil)
}

func (c *Client) RemoveUserFromProject(ctx context.Context, projectID, userID model.ID) error {
	body := map[string]any{"project_id": idValue(projectID), "user_id": idValue(userID)}
	return c.post(ctx, "/remove-user-from-project", body, nil)
}

// ListUsers fetches one page of users; perPage <= 0 uses 200.
func (c *Client) ListUsers(ctx context.Context, perPage int) ([]model.User, error) {
	if perPage <= 0 {
		perPage = 200
	}
	var out listData[model.User]
	q := url.Values{"per_page": {strconv.Itoa(perPage)}}
	err := c.get(ctx, "/admin/get-user-list", q, &out)
	return out, err
}

func (c *Client) AddUser(ctx context.Context, in model.UserInput) (model.User, error) {
	var u model.User
	err := c.post(ctx, "/add-new-user", in, &u)
	return u, err
}

func (c *Client) UpdateUser(ctx context.Context, id model.ID, in model.UserInput) (model.User, error) {
	var u model.User
	err := c.post(ctx, idPath("/users", id), in, &u)
	return u, err
}

func (c *Client) DeleteUser(ctx context.Context, id model.ID) error {
	return c.delete(ctx, idPath("/users", id), nil)
}

func (c *Client) ListVendors(ctx context.Context) ([]model.Vendor, error) {
	var out listData[model.Vendor]
	err := c.get(ctx, "/vendors", nil, &out)
	return out, err
}

func (c *Client) AddVendor(ctx context.Context, in model.VendorInput) (model.Vendor, error) {
	var v model.Vendor
	err := c.post(ctx, "/vendors", in, &v)
	return v, err
}

func (c *Client) UpdateVendor(ctx context.Context, id model.ID, in model.VendorInput) (model.Vendor, error) {
	var v model.Vendor
	err := c.post(ctx, idPath("/update-vendor", id), in, &v)
	return v, err
}

func (c *Client) DeleteVendor(ctx context.Context, id model.ID) error {
	return c.delete(ctx, idPath("/vendors", id), nil)
}

func (c *Client) ListHolidays(ctx context.Context) ([]model.Holiday, error) {
	var out listData[model.Holiday]
	err := c.get(ctx, "/holiday-list", nil, &out)
	return out, err
}

func (c *Client) AddHoliday(ctx context.Context, title, date string) (model.Holiday, error) {
	var h model.Holiday
	body := map[string]string{"title": strings.TrimSpace(title), "date": strings.TrimSpace(date)}
	err := c.post(ctx, "/add-holiday", body, &h)
	return h, err
}

// WeekendDates lists the backend's weekend days for year as YYYY-MM-DD.
func (c *Client) WeekendDates(ctx context.Context, year int) ([]string, error) {
	var out struct {
		Dates []string `json:"dates"`
	}
	err := c.get(ctx, "/get-weekend-dates/"+strconv.Itoa(year), nil, &out)
	return out.Dates, err
}

func (c *Client) ListDepartments(ctx context.Context) ([]model.Department, error) {
	var out listData[model.Department]
	err := c.get(ctx, "/open/get-department-list", nil, &out)
	return out, err
}

func (c *Client) ListDesignations(ctx context.Context) ([]model.Designation, error) {
	var out listData[model.Designation]
	err := c.get(ctx, "/open/get-designation-list", nil, &out)
	return out, err
}
