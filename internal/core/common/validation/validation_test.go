package validation_test

import (
	"testing"

	errors "github.com/frahmantamala/facility-management/internal"
	"github.com/frahmantamala/facility-management/internal/core/common/validation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

func fieldErrors(err *errors.AppError) []errors.ValidationError {
	Expect(err).NotTo(BeNil())
	details, ok := err.Details.(errors.ValidationErrors)
	Expect(ok).To(BeTrue())
	return details.Errors
}

var _ = Describe("ValidationBuilder", func() {
	It("passes when every rule holds", func() {
		v := validation.NewValidator()
		v.Field("name", "Lab 1").Required().MaxLength(50)
		v.Field("capacity", 30).MinInt(0, errors.ErrCodeValidationFailed)
		Expect(v.Validate()).To(BeNil())
	})

	It("collects one error per failing rule across fields", func() {
		var room *int64
		v := validation.NewValidator()
		v.Field("name", "   ").Required()
		v.Field("room_id", room).Required()
		v.Field("day_of_week", 7).MaxInt(6, errors.ErrCodeInvalidTime)

		err := v.Validate()
		Expect(err.Type).To(Equal(errors.ErrorTypeValidation))

		fields := fieldErrors(err)
		Expect(fields).To(HaveLen(3))
		Expect(fields[2].Field).To(Equal("day_of_week"))
		Expect(fields[2].Code).To(Equal(string(errors.ErrCodeInvalidTime)))
	})

	It("leaves empty values to Required for OneOf", func() {
		v := validation.NewValidator()
		v.Field("priority", "").OneOf("LOW", "HIGH")
		Expect(v.Validate()).To(BeNil())

		v = validation.NewValidator()
		v.Field("priority", "CRITICAL").OneOf("LOW", "HIGH")
		Expect(fieldErrors(v.Validate())[0].Message).To(Equal("priority must be one of: LOW, HIGH"))
	})

	DescribeTable("TimeOfDay",
		func(value string, valid bool) {
			v := validation.NewValidator()
			v.Field("start_time", value).TimeOfDay()
			if valid {
				Expect(v.Validate()).To(BeNil())
			} else {
				Expect(fieldErrors(v.Validate())[0].Code).To(Equal(string(errors.ErrCodeInvalidTime)))
			}
		},
		Entry("zero padded", "09:30", true),
		Entry("single digit hour", "9:30", true),
		Entry("last minute", "23:59", true),
		Entry("hour out of range", "24:00", false),
		Entry("minute out of range", "10:60", false),
		Entry("not a time", "noon", false),
	)

	It("parses minutes after midnight", func() {
		m, err := validation.ParseTimeOfDay("10:45")
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(645))
	})
})
