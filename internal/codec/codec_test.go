package codec

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "uptimeboard/internal/database"
    "uptimeboard/internal/models"
)

func TestNestedFieldsRoundTrip(t *testing.T) {
    tagCases := [][]string{
        {},
        {"Production"},
        {"Production", "API", "Backend"},
    }
    for _, tags := range tagCases {
        r := DecodeResource(EncodeResource(models.Resource{ID: "r", Tags: tags}))
        assert.Equal(t, tags, r.Tags)

        c := DecodeCheck(EncodeCheck(models.Check{ID: "c", Tags: tags, TestType: models.TestUptime}))
        assert.Equal(t, tags, c.Tags)
    }

    fieldCases := []models.Fields{
        {},
        {"timeout": float64(30)},
        {"statusCode": float64(200), "error": "Connection timeout", "ok": true, "nested": map[string]interface{}{"a": "b"}},
    }
    for _, fields := range fieldCases {
        c := DecodeCheck(EncodeCheck(models.Check{ID: "c", Criteria: fields, TestType: models.TestUptime}))
        assert.Equal(t, fields, c.Criteria)

        n := DecodeNotification(EncodeNotification(models.Notification{ID: "n", Conditions: fields}))
        assert.Equal(t, fields, n.Conditions)

        e := DecodeEvent(EncodeEvent(models.Event{ID: "e", Details: fields}))
        assert.Equal(t, fields, e.Details)
    }
}

func TestDecodeMalformedNestedFields(t *testing.T) {
    for _, raw := range []interface{}{nil, "", "not json", "{", "null", 42} {
        rec := database.Record{
            "id":         "x",
            "tags":       raw,
            "criteria":   raw,
            "details":    raw,
            "conditions": raw,
        }
        assert.Equal(t, []string{}, DecodeResource(rec).Tags)
        assert.Equal(t, models.Fields{}, DecodeCheck(rec).Criteria)
        assert.Equal(t, models.Fields{}, DecodeEvent(rec).Details)
        assert.Equal(t, models.Fields{}, DecodeNotification(rec).Conditions)
    }
}

func TestDecodeBooleanFlags(t *testing.T) {
    cases := []struct {
        raw  interface{}
        want bool
    }{
        {1, true},
        {float64(2), true},
        {"1", true},
        {true, true},
        {0, false},
        {float64(-1), false},
        {"0", false},
        {nil, false},
        {false, false},
    }
    for _, tc := range cases {
        c := DecodeCheck(database.Record{"isActive": tc.raw})
        assert.Equal(t, tc.want, c.IsActive, "isActive=%v", tc.raw)
        n := DecodeNotification(database.Record{"isActive": tc.raw})
        assert.Equal(t, tc.want, n.IsActive, "isActive=%v", tc.raw)
    }

    assert.Equal(t, 1, EncodeCheck(models.Check{IsActive: true})["isActive"])
    assert.Equal(t, 0, EncodeCheck(models.Check{})["isActive"])
}

func TestDecodeCheckLegacyFields(t *testing.T) {
    legacy := DecodeCheck(database.Record{"name": "website-uptime", "type": "ssl"})
    assert.Equal(t, models.TestSSL, legacy.TestType)
    assert.Equal(t, "website-uptime", legacy.Title)

    both := DecodeCheck(database.Record{"name": "n", "title": "Title", "testType": "dns", "type": "ssl"})
    assert.Equal(t, models.TestDNS, both.TestType)
    assert.Equal(t, "Title", both.Title)
}

func TestDecodeResource(t *testing.T) {
    created := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
    rec := EncodeResource(models.Resource{
        ID:             "r1",
        Name:           "Main Website",
        Slug:           "main-website",
        Status:         models.StatusWarning,
        ResponseTime:   245,
        AssignedUserID: "u1",
        CreatedAt:      created,
        UpdatedAt:      created,
    })
    assert.Equal(t, "", rec["lastChecked"])

    // numbers come back from JSON storage as float64
    rec["responseTime"] = float64(245)
    r := DecodeResource(rec)
    assert.Equal(t, "Main Website", r.Name)
    assert.Equal(t, models.StatusWarning, r.Status)
    assert.Equal(t, 245, r.ResponseTime)
    assert.True(t, r.LastChecked.IsZero())
    assert.True(t, created.Equal(r.CreatedAt))

    assert.Equal(t, 0, DecodeResource(database.Record{"responseTime": float64(-5)}).ResponseTime)
}

func TestNotificationRecipient(t *testing.T) {
    rec := EncodeNotification(models.Notification{ID: "n1", UserID: "recipient"})
    rec["userId"] = "owner"
    assert.Equal(t, "recipient", DecodeNotification(rec).UserID)

    assert.Equal(t, "owner", DecodeNotification(database.Record{"userId": "owner"}).UserID)
}

func TestEncodePatches(t *testing.T) {
    name := "New"
    active := false
    assert.Equal(t, database.Record{"name": "New"}, EncodeResourcePatch(models.ResourcePatch{Name: &name}))
    assert.Equal(t, database.Record{
        "isActive": 0,
        "tags":     `["a"]`,
        "criteria": `{"timeout":5}`,
    }, EncodeCheckPatch(models.CheckPatch{IsActive: &active, Tags: []string{"a"}, Criteria: models.Fields{"timeout": 5}}))
    assert.Empty(t, EncodeNotificationPatch(models.NotificationPatch{}))
}

func TestDecodeResourceNormalizesStatus(t *testing.T) {
    for _, raw := range []interface{}{nil, "", "down", "ONLINE", 3} {
        r := DecodeResource(database.Record{"id": "r", "status": raw})
        assert.Equal(t, models.StatusOffline, r.Status, "status=%v", raw)
    }
    for _, valid := range []models.ResourceStatus{models.StatusOnline, models.StatusWarning, models.StatusOffline} {
        assert.Equal(t, valid, DecodeResource(database.Record{"status": string(valid)}).Status)
    }
}

func TestLastCheckedRoundTrip(t *testing.T) {
    never := DecodeResource(EncodeResource(models.Resource{ID: "r"}))
    assert.True(t, never.LastChecked.IsZero())

    checked := time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)
    r := DecodeResource(EncodeResource(models.Resource{ID: "r", LastChecked: models.At(checked)}))
    assert.True(t, checked.Equal(r.LastChecked.Time))

    cleared := models.At(time.Time{})
    assert.Equal(t, database.Record{"lastChecked": ""}, EncodeResourcePatch(models.ResourcePatch{LastChecked: &cleared}))
}
