// internal/codec/patch.go - Partial update records
package codec

import (
    "uptimeboard/internal/database"
    "uptimeboard/internal/models"
)

// EncodeResourcePatch returns only the fields present in p.
func EncodeResourcePatch(p models.ResourcePatch) database.Record {
    rec := database.Record{}
    if p.Name != nil {
        rec["name"] = *p.Name
    }
    if p.Slug != nil {
        rec["slug"] = *p.Slug
    }
    if p.Tags != nil {
        rec["tags"] = encodeTags(p.Tags)
    }
    if p.Status != nil {
        rec["status"] = string(*p.Status)
    }
    if p.LastChecked != nil {
        rec["lastChecked"] = database.FormatTime(p.LastChecked.Time)
    }
    if p.ResponseTime != nil {
        rec["responseTime"] = *p.ResponseTime
    }
    if p.AssignedUserID != nil {
        rec["assignedUserId"] = *p.AssignedUserID
    }
    return rec
}

func EncodeCheckPatch(p models.CheckPatch) database.Record {
    rec := database.Record{}
    if p.Title != nil {
        rec["title"] = *p.Title
    }
    if p.Description != nil {
        rec["description"] = *p.Description
    }
    if p.Tags != nil {
        rec["tags"] = encodeTags(p.Tags)
    }
    if p.Schedule != nil {
        rec["schedule"] = *p.Schedule
    }
    if p.TestType != nil {
        rec["testType"] = string(*p.TestType)
    }
    if p.ResourceID != nil {
        rec["resourceId"] = *p.ResourceID
    }
    if p.Criteria != nil {
        rec["criteria"] = encodeFields(p.Criteria)
    }
    if p.IsActive != nil {
        rec["isActive"] = boolFlag(*p.IsActive)
    }
    return rec
}

func EncodeNotificationPatch(p models.NotificationPatch) database.Record {
    rec := database.Record{}
    if p.ResourceID != nil {
        rec["resourceId"] = *p.ResourceID
    }
    if p.UserID != nil {
        rec[fieldNotificationUser] = *p.UserID
    }
    if p.Type != nil {
        rec["type"] = string(*p.Type)
    }
    if p.Conditions != nil {
        rec["conditions"] = encodeFields(p.Conditions)
    }
    if p.IsActive != nil {
        rec["isActive"] = boolFlag(*p.IsActive)
    }
    return rec
}
