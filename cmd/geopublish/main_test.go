// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"bytes"
	"flag"
	"io/ioutil"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diffeo/go-geoserver/memory"
	"github.com/diffeo/go-geoserver/restclient"
	"github.com/diffeo/go-geoserver/restserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v2"
)

// exitCode records what the cli would have exited with.
var exitCode int

func init() {
	cli.OsExiter = func(code int) { exitCode = code }
	cli.ErrWriter = ioutil.Discard
}

type fixture struct {
	t      *testing.T
	server *httptest.Server
	dir    string
}

func newFixture(t *testing.T) *fixture {
	dir, err := ioutil.TempDir("", "geopublish")
	require.NoError(t, err)
	return &fixture{
		t:      t,
		server: httptest.NewServer(restserver.NewPrefixRouter("/geoserver/rest", memory.New())),
		dir:    dir,
	}
}

func (f *fixture) Close() {
	f.server.Close()
	os.RemoveAll(f.dir)
}

// run runs one geopublish command against the test server and
// decodes its YAML output.
func (f *fixture) run(args ...string) (map[string]interface{}, int) {
	var out bytes.Buffer
	exitCode = 0
	argv := append([]string{"geopublish", "--url", f.server.URL + "/geoserver/rest", "--retries", "-1"}, args...)
	err := newApp(&out).Run(argv)
	if exitCode == 0 {
		assert.NoError(f.t, err)
	}
	var result map[string]interface{}
	assert.NoError(f.t, yaml.Unmarshal(out.Bytes(), &result), out.String())
	return result, exitCode
}

func TestWorkspaceCommands(t *testing.T) {
	f := newFixture(t)
	defer f.Close()

	result, code := f.run("workspace", "create", "topp")
	assert.Equal(t, 0, code)
	assert.Equal(t, "success", result["status"])

	result, code = f.run("workspace", "create", "topp")
	assert.Equal(t, 1, code)
	assert.Equal(t, "fail", result["status"])
	assert.Equal(t, "workspace already exists: topp", result["info"])

	var out bytes.Buffer
	require.NoError(t, newApp(&out).Run([]string{"geopublish", "--url", f.server.URL + "/geoserver/rest", "workspace", "list"}))
	var names []string
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &names))
	assert.Equal(t, []string{"topp"}, names)

	result, code = f.run("workspace", "delete", "topp")
	assert.Equal(t, 0, code)
	assert.Equal(t, "success", result["status"])
}

func TestPublishTiff(t *testing.T) {
	f := newFixture(t)
	defer f.Close()
	tif := filepath.Join(f.dir, "dem.tif")
	require.NoError(t, ioutil.WriteFile(tif, []byte("II*\x00"), 0644))

	result, code := f.run("publish-tiff", "--workspace", "gis", "--layer", "dem", tif)
	assert.Equal(t, 0, code)
	if assert.Equal(t, "success", result["status"], "%v", result["info"]) {
		data := result["data"].(map[interface{}]interface{})
		assert.Equal(t, "raster", data["default_style"])
	}

	// Publishing again replaces the store
	result, code = f.run("publish-tiff", "--workspace", "gis", "--layer", "dem", tif)
	assert.Equal(t, 0, code)
	assert.Equal(t, "success", result["status"], "%v", result["info"])

	result, code = f.run("layer", "delete", "--workspace", "gis", "dem")
	assert.Equal(t, 0, code)
	result, code = f.run("store", "delete", "--workspace", "gis", "dem")
	assert.Equal(t, 0, code)
	assert.Equal(t, "success", result["status"])
}

func TestPublishPyramidNeedsOutDir(t *testing.T) {
	f := newFixture(t)
	defer f.Close()

	result, code := f.run("publish-pyramid", "--workspace", "gis", "--layer", "big", "big.tif")
	assert.Equal(t, 1, code)
	assert.Equal(t, "--out-dir is required", result["info"])
}

func TestStyleCommands(t *testing.T) {
	f := newFixture(t)
	defer f.Close()
	f.run("workspace", "create", "topp")

	result, code := f.run("style", "update", "--workspace", "topp", "--kind", "line", "roads")
	assert.Equal(t, 1, code)
	assert.Equal(t, "style does not exist: roads", result["info"])

	result, code = f.run("style", "create", "--workspace", "topp", "--kind", "point",
		"--param", "transparency=0.3", "--param", "type=star", "wells")
	assert.Equal(t, 0, code)
	assert.Equal(t, "success", result["status"], "%v", result["info"])

	result, code = f.run("style", "update", "--workspace", "topp", "--kind", "polygon",
		"--param", "fill_color=#FFFFFF", "wells")
	assert.Equal(t, 0, code)
	assert.Equal(t, "success", result["status"], "%v", result["info"])

	result, code = f.run("style", "create", "--workspace", "topp", "--kind", "hexagon", "odd")
	assert.Equal(t, 1, code)

	result, code = f.run("style", "delete", "--workspace", "topp", "wells")
	assert.Equal(t, 0, code)
}

func TestStyleParams(t *testing.T) {
	params, err := styleParams([]string{"color=#FF0000", "width=2"})
	if assert.NoError(t, err) {
		assert.Equal(t, map[string]interface{}{"color": "#FF0000", "width": "2"}, params)
	}
	_, err = styleParams([]string{"color"})
	assert.Error(t, err)
	_, err = styleParams([]string{"=red"})
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	dir, err := ioutil.TempDir("", "geopublish")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	filename := filepath.Join(dir, "config.yaml")
	require.NoError(t, ioutil.WriteFile(filename, []byte(
		"url: http://file/geoserver/rest\n"+
			"username: fileuser\n"+
			"password: filepass\n"+
			"retries: 5\n"+
			"backoff_factor: 0.5\n"+
			"timeout: 90s\n"), 0644))

	var config restclient.Config
	app := newApp(ioutil.Discard)
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range app.Flags {
		f.Apply(set)
	}
	require.NoError(t, set.Parse([]string{"--config", filename, "--username", "flaguser", "--timeout", "1m"}))
	ctx := cli.NewContext(app, set, nil)
	child := cli.NewContext(app, flag.NewFlagSet("child", flag.ContinueOnError), ctx)

	config, err = loadConfig(child)
	if assert.NoError(t, err) {
		assert.Equal(t, "http://file/geoserver/rest", config.URL)
		assert.Equal(t, "flaguser", config.Username)
		assert.Equal(t, "filepass", config.Password)
		assert.Equal(t, 5, config.Retries)
		assert.Equal(t, 0.5, config.BackoffFactor)
		assert.Equal(t, time.Minute, config.Timeout)
	}
}

func TestDecodeConfigUnknownKey(t *testing.T) {
	var config restclient.Config
	err := decodeConfig(map[string]interface{}{"ulr": "http://typo"}, &config)
	assert.Error(t, err)
}
