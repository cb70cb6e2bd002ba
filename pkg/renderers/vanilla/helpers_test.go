package vanilla_test

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-loanform/internal/logger"
	"github.com/goliatone/go-loanform/pkg/client"
	"github.com/goliatone/go-loanform/pkg/controller"
	"github.com/goliatone/go-loanform/pkg/renderers/vanilla"
)

func fsReadAll(name string) (string, error) {
	data, err := fs.ReadFile(vanilla.AssetsFS(), name)
	return string(data), err
}

func newController(t *testing.T, baseURL string, ui controller.UI) *controller.Controller {
	t.Helper()
	api, err := client.New(baseURL)
	require.NoError(t, err)
	return controller.New(api, ui,
		controller.WithNoticeInterval(0),
		controller.WithLogger(logger.NewTestLogger(t)),
	)
}
