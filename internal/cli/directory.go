package cli

import (
	"context"
	"errors"
	"strings"

	"planboard-cli/internal/backend"
	"planboard-cli/internal/model"

	"github.com/spf13/cobra"
)

// newDirectoryCmds builds the people and organisation commands: users and
// vendors with full CRUD, departments and designations as plain lists.
func newDirectoryCmds(app *App) []*cobra.Command {
	var perPage int

	users := newListGroup(app, "users", "Users", func(ctx context.Context, c *backend.Client) (any, error) {
		return c.ListUsers(ctx, perPage)
	})
	users.Commands()[0].Flags().IntVar(&perPage, "per-page", 200, "Page size")
	users.AddCommand(newUsersAddCmd(app), newUsersUpdateCmd(app), newDeleteCmd(app, "user", func(ctx context.Context, c *backend.Client, id model.ID) error {
		return c.DeleteUser(ctx, id)
	}))

	vendors := newListGroup(app, "vendors", "Vendors", func(ctx context.Context, c *backend.Client) (any, error) {
		return c.ListVendors(ctx)
	})
	vendors.AddCommand(newVendorsAddCmd(app), newVendorsUpdateCmd(app), newDeleteCmd(app, "vendor", func(ctx context.Context, c *backend.Client, id model.ID) error {
		return c.DeleteVendor(ctx, id)
	}))

	return []*cobra.Command{
		users,
		vendors,
		newListGroup(app, "departments", "Departments", func(ctx context.Context, c *backend.Client) (any, error) {
			return c.ListDepartments(ctx)
		}),
		newListGroup(app, "designations", "Designations", func(ctx context.Context, c *backend.Client) (any, error) {
			return c.ListDesignations(ctx)
		}),
	}
}

func newListGroup(app *App, use, title string, fetch func(ctx context.Context, c *backend.Client) (any, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: title + " commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List " + use,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				v, err := fetch(ctx, c)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": v})
			})
		},
	})
	return cmd
}

func newDeleteCmd(app *App, kind string, del func(ctx context.Context, c *backend.Client, id model.ID) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <" + kind + "-id>",
		Short: "Delete a " + kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				if err := del(ctx, c, id); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "deleted": true}})
			})
		},
	}
}

// stringFlags binds one string flag per field and copies the ones the user
// set onto their targets.
type stringFlags struct {
	names []string
	vals  map[string]*string
}

func (f *stringFlags) register(cmd *cobra.Command, names ...string) {
	f.names = names
	f.vals = make(map[string]*string, len(names))
	for _, n := range names {
		f.vals[n] = cmd.Flags().String(n, "", strings.ReplaceAll(n, "-", " "))
	}
}

func (f *stringFlags) apply(cmd *cobra.Command, dst map[string]*string) {
	for _, n := range f.names {
		if !cmd.Flags().Changed(n) || dst[n] == nil {
			continue
		}
		v := *f.vals[n]
		if n != "password" {
			v = strings.TrimSpace(v)
		}
		*dst[n] = v
	}
}

var userFields = []string{"name", "email", "phone", "gender", "employee-code", "hrm-id", "department", "designation", "wing", "address", "password"}

func userTargets(in *model.UserInput) map[string]*string {
	return map[string]*string{
		"name":          &in.Name,
		"email":         &in.Email,
		"phone":         &in.Phone,
		"gender":        &in.Gender,
		"employee-code": &in.EmployeeCode,
		"hrm-id":        &in.HRMID,
		"department":    &in.DepartmentID,
		"designation":   &in.DesignationID,
		"wing":          &in.Wing,
		"address":       &in.Address,
		"password":      &in.Password,
	}
}

func activeInt(active bool) int {
	if active {
		return 1
	}
	return 0
}

func newUsersAddCmd(app *App) *cobra.Command {
	var (
		f      stringFlags
		active bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.UserInput{Gender: "male", Wing: "SFT", IsActive: activeInt(active)}
			f.apply(cmd, userTargets(&in))
			if in.Name == "" || in.Email == "" {
				return writeErr(cmd, errors.New("missing --name or --email"))
			}
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				u, err := c.AddUser(ctx, in)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": u})
			})
		},
	}
	f.register(cmd, userFields...)
	cmd.Flags().BoolVar(&active, "active", true, "Active")
	return cmd
}

func newUsersUpdateCmd(app *App) *cobra.Command {
	var (
		f       stringFlags
		active  bool
		perPage int
	)
	cmd := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Update a user (unset flags keep their current value)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				users, err := c.ListUsers(ctx, perPage)
				if err != nil {
					return err
				}
				var cur *model.User
				for i := range users {
					if users[i].ID == id {
						cur = &users[i]
						break
					}
				}
				if cur == nil {
					return errNotFound("user", id)
				}
				in := model.UserInput{
					Name:          cur.Name,
					Email:         cur.Email,
					Phone:         cur.Phone,
					Gender:        cur.Gender,
					EmployeeCode:  cur.EmployeeCode,
					HRMID:         cur.HRMID,
					DepartmentID:  cur.DepartmentID.String(),
					DesignationID: cur.DesignationID.String(),
					Wing:          cur.Wing,
					Address:       cur.Address,
					IsActive:      activeInt(bool(cur.IsActive)),
				}
				f.apply(cmd, userTargets(&in))
				if cmd.Flags().Changed("active") {
					in.IsActive = activeInt(active)
				}
				u, err := c.UpdateUser(ctx, id, in)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": u})
			})
		},
	}
	f.register(cmd, userFields...)
	cmd.Flags().BoolVar(&active, "active", true, "Active")
	cmd.Flags().IntVar(&perPage, "per-page", 200, "Page size used to look the user up")
	return cmd
}

var vendorFields = []string{"name", "company", "email", "phone", "website", "tax-id", "address-line-1", "address-line-2", "city", "state", "country", "postal-code"}

func vendorTargets(in *model.VendorInput) map[string]*string {
	return map[string]*string{
		"name":           &in.Name,
		"company":        &in.CompanyName,
		"email":          &in.Email,
		"phone":          &in.Phone,
		"website":        &in.Website,
		"tax-id":         &in.TaxID,
		"address-line-1": &in.AddressLine1,
		"address-line-2": &in.AddressLine2,
		"city":           &in.City,
		"state":          &in.State,
		"country":        &in.Country,
		"postal-code":    &in.PostalCode,
	}
}

func newVendorsAddCmd(app *App) *cobra.Command {
	var (
		f      stringFlags
		active bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a vendor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.VendorInput{IsActive: active}
			f.apply(cmd, vendorTargets(&in))
			if in.Name == "" {
				return writeErr(cmd, errors.New("missing --name"))
			}
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				v, err := c.AddVendor(ctx, in)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": v})
			})
		},
	}
	f.register(cmd, vendorFields...)
	cmd.Flags().BoolVar(&active, "active", true, "Active")
	return cmd
}

func newVendorsUpdateCmd(app *App) *cobra.Command {
	var (
		f      stringFlags
		active bool
	)
	cmd := &cobra.Command{
		Use:   "update <vendor-id>",
		Short: "Update a vendor (unset flags keep their current value)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			return withSession(cmd, app, func(ctx context.Context, c *backend.Client) error {
				vendors, err := c.ListVendors(ctx)
				if err != nil {
					return err
				}
				var cur *model.Vendor
				for i := range vendors {
					if vendors[i].ID == id {
						cur = &vendors[i]
						break
					}
				}
				if cur == nil {
					return errNotFound("vendor", id)
				}
				in := model.VendorInput{
					Name:         cur.Name,
					CompanyName:  cur.CompanyName,
					Email:        cur.Email,
					Phone:        cur.Phone,
					Website:      cur.Website,
					TaxID:        cur.TaxID,
					AddressLine1: cur.AddressLine1,
					AddressLine2: cur.AddressLine2,
					City:         cur.City,
					State:        cur.State,
					Country:      cur.Country,
					PostalCode:   cur.PostalCode,
					IsActive:     bool(cur.IsActive),
				}
				f.apply(cmd, vendorTargets(&in))
				if cmd.Flags().Changed("active") {
					in.IsActive = active
				}
				if in.Name == "" {
					return errors.New("vendor name cannot be empty")
				}
				v, err := c.UpdateVendor(ctx, id, in)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": v})
			})
		},
	}
	f.register(cmd, vendorFields...)
	cmd.Flags().BoolVar(&active, "active", true, "Active")
	return cmd
}
