package heroku

type BindOptions struct {
	Remote string

	// DontAutoCreate returns the attach failure instead of creating a missing app
	DontAutoCreate bool

	Create CreateOptions
}

// BindRemote attaches the working copy to app, creating the app when it cannot be attached.
func (c *Client) BindRemote(app string, opts BindOptions) error {
	err := c.GitRemote(app, opts.Remote)
	if err == nil {
		c.Logger.Info("added git remote", "remote", opts.Remote, "app", app)
		return nil
	}

	if opts.DontAutoCreate {
		return err
	}

	c.Logger.Info("attaching failed, creating app", "app", app, "err", err.Error())

	if err := c.Create(app, opts.Create); err != nil {
		return err
	}

	if err := c.GitRemote(app, opts.Remote); err != nil {
		return err
	}

	c.Logger.Info("created app and added git remote", "remote", opts.Remote, "app", app)

	return nil
}
