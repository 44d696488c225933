package models

import (
    "testing"
    "time"

    jsoniter "github.com/json-iterator/go"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
    cases := map[string]string{
        "Website Uptime Check":     "website-uptime-check",
        "  API -- Response Time ": "api-response-time",
        "SSL Certificate (Expiry)": "ssl-certificate-expiry",
        "Émoji 🚀 check":           "moji-check",
        "---":                      "",
    }
    for in, want := range cases {
        assert.Equal(t, want, Slugify(in), in)
    }
}

func TestResourceInputValidate(t *testing.T) {
    in := ResourceInput{Name: "Main Website"}
    require.NoError(t, in.Validate())
    assert.Equal(t, StatusOnline, in.Status)

    for _, bad := range []ResourceInput{
        {Name: " "},
        {Name: "x", Status: "down"},
        {Name: "x", ResponseTime: -1},
    } {
        assert.ErrorIs(t, bad.Validate(), ErrValidation)
    }
}

func TestCheckInputValidate(t *testing.T) {
    in := CheckInput{ResourceID: "r1", Title: "Homepage Uptime", TestType: TestUptime}
    require.NoError(t, in.Validate())
    assert.Equal(t, "homepage-uptime", in.Name)

    named := CheckInput{ResourceID: "r1", Name: "legacy-check", TestType: TestDNS}
    require.NoError(t, named.Validate())
    assert.Equal(t, "legacy-check", named.Title)
    assert.Equal(t, "legacy-check", named.Name)

    for _, bad := range []CheckInput{
        {Title: "t", TestType: TestUptime},
        {ResourceID: "r1", TestType: TestUptime},
        {ResourceID: "r1", Title: "t", TestType: "ping"},
        {ResourceID: "r1", Title: "t", TestType: TestUptime, Criteria: Fields{"timeout": "soon"}},
        {ResourceID: "r1", Title: "t", TestType: TestSSL, Criteria: Fields{"daysBeforeExpiry": -3}},
    } {
        assert.ErrorIs(t, bad.Validate(), ErrValidation)
    }

    // unknown keys and shapeless types are left alone
    free := CheckInput{ResourceID: "r1", Title: "t", TestType: TestContent, Criteria: Fields{"contains": "Welcome"}}
    assert.NoError(t, free.Validate())
}

func TestPatchValidate(t *testing.T) {
    bogus := TestType("ping")
    assert.ErrorIs(t, (&CheckPatch{TestType: &bogus}).Validate(), ErrValidation)

    uptime := TestUptime
    assert.ErrorIs(t, (&CheckPatch{TestType: &uptime, Criteria: Fields{"timeout": -1}}).Validate(), ErrValidation)
    assert.NoError(t, (&CheckPatch{Criteria: Fields{"timeout": -1}}).Validate())

    empty := ""
    assert.ErrorIs(t, (&ResourcePatch{Name: &empty}).Validate(), ErrValidation)
    sms := NotificationType("sms")
    assert.ErrorIs(t, (&NotificationPatch{Type: &sms}).Validate(), ErrValidation)
}

func TestTypedCriteria(t *testing.T) {
    uptime := Check{TestType: TestUptime, Criteria: Fields{"timeout": float64(30), "expectedStatus": 200}}
    assert.Equal(t, UptimeCriteria{Timeout: 30, ExpectedStatus: 200}, uptime.TypedCriteria())

    latency := Check{TestType: TestResponseTime, Criteria: Fields{"maxResponseTime": 1000}}
    assert.Equal(t, ResponseTimeCriteria{MaxResponseTime: 1000}, latency.TypedCriteria())

    ssl := Check{TestType: TestSSL, Criteria: Fields{"daysBeforeExpiry": 30}}
    typed := ssl.TypedCriteria()
    assert.Equal(t, TestSSL, typed.TestType())
    assert.Equal(t, Fields{"daysBeforeExpiry": 30}, CriteriaFields(typed))

    content := Check{TestType: TestContent, Criteria: Fields{"contains": "Welcome"}}
    generic, ok := content.TypedCriteria().(GenericCriteria)
    require.True(t, ok)
    assert.Equal(t, Fields{"contains": "Welcome"}, generic.Fields)

    // the generic view is a copy
    generic.Fields["contains"] = "changed"
    assert.Equal(t, "Welcome", content.Criteria.String("contains"))
}

func TestEnumsValid(t *testing.T) {
    assert.True(t, StatusWarning.Valid())
    assert.False(t, ResourceStatus("").Valid())
    assert.True(t, TestPort.Valid())
    assert.True(t, EventFailure.Valid())
    assert.False(t, EventType("error").Valid())
    assert.True(t, NotifyWebhook.Valid())
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func TestTimestampJSON(t *testing.T) {
    data, err := json.Marshal(Resource{ID: "r"})
    require.NoError(t, err)
    assert.Contains(t, string(data), `"lastChecked":""`)

    checked := time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)
    data, err = json.Marshal(At(checked))
    require.NoError(t, err)
    assert.Equal(t, `"2026-10-15T08:30:00Z"`, string(data))

    for _, raw := range []string{`{"name":"X","lastChecked":""}`, `{"name":"X","lastChecked":null}`, `{"name":"X"}`} {
        var in ResourceInput
        require.NoError(t, json.Unmarshal([]byte(raw), &in), raw)
        assert.True(t, in.LastChecked.IsZero(), raw)
    }

    var in ResourceInput
    require.NoError(t, json.Unmarshal([]byte(`{"lastChecked":"2026-10-15T10:30:00+02:00"}`), &in))
    assert.True(t, checked.Equal(in.LastChecked.Time))

    var patch ResourcePatch
    require.NoError(t, json.Unmarshal([]byte(`{"lastChecked":""}`), &patch))
    require.NotNil(t, patch.LastChecked)
    assert.True(t, patch.LastChecked.IsZero())

    assert.Error(t, json.Unmarshal([]byte(`{"lastChecked":"yesterday"}`), &in))
    assert.Error(t, json.Unmarshal([]byte(`{"lastChecked":42}`), &in))
}
