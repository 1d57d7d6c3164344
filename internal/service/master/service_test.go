package master

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/holiday"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/office"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pune = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"

type fakeOffices struct {
	office.OfficeRepository
	rows map[string]office.Office
}

func (f *fakeOffices) Create(_ context.Context, o office.Office) (office.Office, error) {
	o.ID = pune
	f.rows[o.ID] = o
	return o, nil
}

func (f *fakeOffices) GetByID(_ context.Context, id string) (office.Office, error) {
	o, ok := f.rows[id]
	if !ok {
		return office.Office{}, office.ErrOfficeNotFound
	}
	return o, nil
}

func (f *fakeOffices) Update(_ context.Context, o office.Office) (office.Office, error) {
	f.rows[o.ID] = o
	return o, nil
}

type fakeHolidays struct {
	holiday.HolidayRepository
	created []holiday.Holiday
}

func (f *fakeHolidays) Create(_ context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	h.ID = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	f.created = append(f.created, h)
	return h, nil
}

func TestOfficeLifecycle(t *testing.T) {
	offices := &fakeOffices{rows: map[string]office.Office{}}
	svc := NewMasterService(offices, &fakeHolidays{})
	ctx := context.Background()

	_, err := svc.CreateOffice(ctx, office.CreateOfficeRequest{Name: "Pune", Timezone: "Mars/Olympus"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "timezone")

	created, err := svc.CreateOffice(ctx, office.CreateOfficeRequest{Name: "Pune"})
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", created.Timezone, "timezone defaults")
	assert.Nil(t, created.HalfDayHours)

	threshold := "10:45"
	hours := decimal.NewFromFloat(4.5)
	updated, err := svc.UpdateOffice(ctx, office.UpdateOfficeRequest{ID: pune, LateThreshold: &threshold, HalfDayHours: &hours})
	require.NoError(t, err)
	assert.Equal(t, "10:45", *updated.LateThreshold)
	assert.True(t, hours.Equal(*updated.HalfDayHours))
	assert.Equal(t, "Pune", updated.Name, "unset fields are kept")

	_, err = svc.GetOffice(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, office.ErrOfficeNotFound)
}

func TestCreateHoliday(t *testing.T) {
	offices := &fakeOffices{rows: map[string]office.Office{}}
	holidays := &fakeHolidays{}
	svc := NewMasterService(offices, holidays)
	ctx := context.Background()

	other := "cccccccc-cccc-cccc-cccc-cccccccccccc"
	_, err := svc.CreateHoliday(ctx, holiday.CreateHolidayRequest{Date: "2024-03-25", Name: "Holi", OfficeID: &other})
	assert.ErrorIs(t, err, office.ErrOfficeNotFound)

	_, err = svc.CreateHoliday(ctx, holiday.CreateHolidayRequest{Date: "25-03-2024", Name: "Holi"})
	assert.Error(t, err)

	resp, err := svc.CreateHoliday(ctx, holiday.CreateHolidayRequest{Date: "2024-03-25", Name: "Holi"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-25", resp.Date)
	assert.Nil(t, resp.OfficeID, "a holiday without an office applies everywhere")
	require.Len(t, holidays.created, 1)
}
