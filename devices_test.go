package ecoflow

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deviceListServer serves the device list endpoint with the given entries.
func deviceListServer(t *testing.T, devices string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathDeviceList {
			t.Errorf("path = %q, want %q", r.URL.Path, pathDeviceList)
		}
		fmt.Fprintf(w, `{"code":"0","message":"Success","data":%s}`, devices)
	}))
}

func TestClient_ListDevices(t *testing.T) {
	t.Run("successful response", func(t *testing.T) {
		server := deviceListServer(t, `[
			{"sn":"R331ABCD","deviceName":"River 2","productName":"RIVER 2","online":1},
			{"sn":"R601WXYZ","deviceName":"Delta 2","online":0}
		]`)
		defer server.Close()

		client, _ := NewClient("ak", "sk", WithBaseURL(server.URL))
		devices, err := client.ListDevices(context.Background())
		require.NoError(t, err)
		require.Len(t, devices, 2)
		assert.Equal(t, "R331ABCD", devices[0].SN)
		assert.Equal(t, "River 2", devices[0].DeviceName)
		assert.True(t, devices[0].IsOnline())
		assert.False(t, devices[1].IsOnline())
	})

	t.Run("empty list", func(t *testing.T) {
		server := deviceListServer(t, `[]`)
		defer server.Close()

		client, _ := NewClient("ak", "sk", WithBaseURL(server.URL))
		devices, err := client.ListDevices(context.Background())
		require.NoError(t, err)
		assert.Empty(t, devices)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "not json")
		}))
		defer server.Close()

		client, _ := NewClient("ak", "sk", WithBaseURL(server.URL))
		_, err := client.ListDevices(context.Background())
		assert.True(t, IsDecode(err))
	})
}

func TestClient_GetDeviceQuota(t *testing.T) {
	t.Run("successful response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, pathDeviceQuotaAll, r.URL.Path)
			assert.Equal(t, "R331ABCD", r.URL.Query().Get("sn"))
			io.WriteString(w, `{"code":"0","message":"Success","data":{
				"bms_bmsStatus.soc": 56,
				"inv.outputWatts": 120.5,
				"ems.emsVersion": "1.0.2"
			}}`)
		}))
		defer server.Close()

		client, _ := NewClient("ak", "sk", WithBaseURL(server.URL))
		quota, err := client.GetDeviceQuota(context.Background(), "R331ABCD")
		require.NoError(t, err)

		soc, ok := GetInt(quota, "bms_bmsStatus.soc")
		assert.True(t, ok)
		assert.Equal(t, 56, soc)

		watts, ok := GetFloat(quota, "inv.outputWatts")
		assert.True(t, ok)
		assert.Equal(t, 120.5, watts)

		version, ok := GetString(quota, "ems.emsVersion")
		assert.True(t, ok)
		assert.Equal(t, "1.0.2", version)
	})

	t.Run("empty serial number", func(t *testing.T) {
		client, _ := NewClient("ak", "sk")
		_, err := client.GetDeviceQuota(context.Background(), "")
		assert.ErrorIs(t, err, ErrEmptySerialNumber)
	})
}

func TestClient_IsDeviceOnline(t *testing.T) {
	server := deviceListServer(t, `[
		{"sn":"R331ABCD","online":1},
		{"sn":"R601WXYZ","online":0}
	]`)
	defer server.Close()

	client, _ := NewClient("ak", "sk", WithBaseURL(server.URL))

	t.Run("online", func(t *testing.T) {
		state, err := client.IsDeviceOnline(context.Background(), "R331ABCD")
		require.NoError(t, err)
		assert.Equal(t, DeviceOnline, state)
	})

	t.Run("offline", func(t *testing.T) {
		state, err := client.IsDeviceOnline(context.Background(), "R601WXYZ")
		require.NoError(t, err)
		assert.Equal(t, DeviceOffline, state)
	})

	t.Run("not found", func(t *testing.T) {
		state, err := client.IsDeviceOnline(context.Background(), "MISSING01")
		require.NoError(t, err)
		assert.Equal(t, DeviceNotFound, state)
	})

	t.Run("empty serial number", func(t *testing.T) {
		_, err := client.IsDeviceOnline(context.Background(), "")
		assert.ErrorIs(t, err, ErrEmptySerialNumber)
	})

	t.Run("list failure propagates", func(t *testing.T) {
		broken, _ := NewClient("ak", "sk", WithBaseURL("http://127.0.0.1:1"))
		_, err := broken.IsDeviceOnline(context.Background(), "R331ABCD")
		assert.True(t, IsTransport(err))
	})
}

func TestClient_SetDeviceFunction(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, pathDeviceQuota, r.URL.Path)
			assert.Equal(t, "application/json;charset=UTF-8", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{
				"sn": "R331ABCD",
				"cmdCode": "WN511_SET_SUPPLY_PRIORITY_PACK",
				"params": {"supplyPriority": 0}
			}`, string(body))
			io.WriteString(w, `{"code":"0","message":"Success"}`)
		}))
		defer server.Close()

		client, _ := NewClient("ak", "sk", WithBaseURL(server.URL))
		err := client.SetDeviceFunction(context.Background(), "R331ABCD",
			"WN511_SET_SUPPLY_PRIORITY_PACK", map[string]any{"supplyPriority": 0})
		require.NoError(t, err)
	})

	t.Run("no params", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"sn":"R331ABCD","cmdCode":"CMD"}`, string(body))
			io.WriteString(w, `{"code":"0","message":"Success"}`)
		}))
		defer server.Close()

		client, _ := NewClient("ak", "sk", WithBaseURL(server.URL))
		require.NoError(t, client.SetDeviceFunction(context.Background(), "R331ABCD", "CMD", nil))
	})

	t.Run("empty serial number", func(t *testing.T) {
		client, _ := NewClient("ak", "sk")
		err := client.SetDeviceFunction(context.Background(), "", "CMD", nil)
		assert.ErrorIs(t, err, ErrEmptySerialNumber)
	})

	t.Run("empty command code", func(t *testing.T) {
		client, _ := NewClient("ak", "sk")
		err := client.SetDeviceFunction(context.Background(), "R331ABCD", "", nil)
		assert.ErrorIs(t, err, ErrEmptyCommandCode)
	})

	t.Run("rejected command", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"code":"8003","message":"device offline"}`)
		}))
		defer server.Close()

		client, _ := NewClient("ak", "sk", WithBaseURL(server.URL))
		err := client.SetDeviceFunction(context.Background(), "R331ABCD", "CMD", nil)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "8003", apiErr.Code)
	})
}

func TestFindDeviceBySN(t *testing.T) {
	devices := []Device{
		{SN: "A", Online: 1},
		{SN: "B", Online: 0},
	}

	found := FindDeviceBySN(devices, "B")
	require.NotNil(t, found)
	assert.Equal(t, "B", found.SN)

	assert.Nil(t, FindDeviceBySN(devices, "C"))
	assert.Nil(t, FindDeviceBySN(nil, "A"))
}

func TestFilterDevices(t *testing.T) {
	devices := []Device{
		{SN: "A", Online: 1},
		{SN: "B", Online: 0},
		{SN: "C", Online: 1},
	}

	online := FilterOnline(devices)
	require.Len(t, online, 2)
	assert.Equal(t, "A", online[0].SN)
	assert.Equal(t, "C", online[1].SN)

	named := FilterDevices(devices, func(d Device) bool { return d.SN == "B" })
	require.Len(t, named, 1)
	assert.Equal(t, "B", named[0].SN)
}
