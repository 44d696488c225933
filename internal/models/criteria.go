// internal/models/criteria.go - Typed views over check criteria
package models

// Criteria is a typed reading of a check's open criteria map. The map itself
// stays authoritative so that unknown keys survive a round trip.
type Criteria interface {
    TestType() TestType
}

type UptimeCriteria struct {
    Timeout        int `json:"timeout"`
    ExpectedStatus int `json:"expectedStatus"`
}

func (UptimeCriteria) TestType() TestType { return TestUptime }

type ResponseTimeCriteria struct {
    MaxResponseTime int `json:"maxResponseTime"`
}

func (ResponseTimeCriteria) TestType() TestType { return TestResponseTime }

// CertificateCriteria serves both the certificate and ssl test types.
type CertificateCriteria struct {
    Type             TestType `json:"-"`
    DaysBeforeExpiry int      `json:"daysBeforeExpiry"`
}

func (c CertificateCriteria) TestType() TestType { return c.Type }

// GenericCriteria is used for test types without a known shape.
type GenericCriteria struct {
    Type   TestType
    Fields Fields
}

func (c GenericCriteria) TestType() TestType { return c.Type }

// TypedCriteria interprets the check's criteria according to its test type.
func (c *Check) TypedCriteria() Criteria {
    switch c.TestType {
    case TestUptime:
        timeout, _ := c.Criteria.Number("timeout")
        status, _ := c.Criteria.Number("expectedStatus")
        return UptimeCriteria{Timeout: int(timeout), ExpectedStatus: int(status)}
    case TestResponseTime:
        max, _ := c.Criteria.Number("maxResponseTime")
        return ResponseTimeCriteria{MaxResponseTime: int(max)}
    case TestCertificate, TestSSL:
        days, _ := c.Criteria.Number("daysBeforeExpiry")
        return CertificateCriteria{Type: c.TestType, DaysBeforeExpiry: int(days)}
    default:
        return GenericCriteria{Type: c.TestType, Fields: c.Criteria.Clone()}
    }
}

// CriteriaFields converts a typed criteria value back into the open map form.
func CriteriaFields(c Criteria) Fields {
    switch v := c.(type) {
    case UptimeCriteria:
        return Fields{"timeout": v.Timeout, "expectedStatus": v.ExpectedStatus}
    case ResponseTimeCriteria:
        return Fields{"maxResponseTime": v.MaxResponseTime}
    case CertificateCriteria:
        return Fields{"daysBeforeExpiry": v.DaysBeforeExpiry}
    case GenericCriteria:
        return v.Fields.Clone()
    }
    return Fields{}
}

// criteriaNumbers lists the numeric keys of each known criteria shape.
var criteriaNumbers = map[TestType][]string{
    TestUptime:       {"timeout", "expectedStatus"},
    TestResponseTime: {"maxResponseTime"},
    TestCertificate:  {"daysBeforeExpiry"},
    TestSSL:          {"daysBeforeExpiry"},
}

// validateCriteria makes sure the typed reading of f is faithful: known keys
// that are present must hold non-negative numbers.
func validateCriteria(t TestType, f Fields) error {
    for _, key := range criteriaNumbers[t] {
        v, ok := f[key]
        if !ok {
            continue
        }
        if n, ok := ToNumber(v); !ok || n < 0 {
            return ValidationError("%s criteria %q must be a non-negative number", t, key)
        }
    }
    return nil
}
