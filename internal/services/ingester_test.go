package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/hh-employers/internal/clients/hh"
	"github.com/maxaizer/hh-employers/internal/domain/events"
	"github.com/maxaizer/hh-employers/internal/domain/models"
	"github.com/maxaizer/hh-employers/internal/repositories"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"slices"
	"testing"
)

type mockHHClient struct {
	mock.Mock
}

func (m *mockHHClient) EmployerExists(ctx context.Context, id int) bool {
	return m.Called(ctx, id).Bool(0)
}

func (m *mockHHClient) GetVacanciesByEmployer(ctx context.Context, employerID int) ([]hh.VacancyItem, error) {
	args := m.Called(ctx, employerID)
	return args.Get(0).([]hh.VacancyItem), args.Error(1)
}

func (m *mockHHClient) GetEmployer(ctx context.Context, id int) (hh.Employer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(hh.Employer), args.Error(1)
}

type mockEmployers struct {
	mock.Mock
}

func (m *mockEmployers) Save(ctx context.Context, employer models.Employer) error {
	return m.Called(ctx, employer).Error(0)
}

type mockVacancies struct {
	mock.Mock
}

func (m *mockVacancies) SaveAll(ctx context.Context, vacancies []models.Vacancy) (int64, error) {
	args := m.Called(ctx, vacancies)
	return args.Get(0).(int64), args.Error(1)
}

var skyengItems = []hh.VacancyItem{
	{ID: "10", Name: "Golang developer", Url: "https://hh.ru/vacancy/10", Salary: &hh.Salary{From: lo.ToPtr(300000)}},
	{ID: "11", Name: "QA engineer", Url: "https://hh.ru/vacancy/11", Salary: &hh.Salary{To: lo.ToPtr(150000)}},
	{ID: "12", Name: "Intern", Url: "https://hh.ru/vacancy/12"},
}

var skyeng = hh.Employer{ID: "1122462", Name: "Skyeng", Url: "https://hh.ru/employer/1122462", OpenVacancies: 3}

func Test_Ingester_Run_SkipsInvalidAndMissingEmployers(t *testing.T) {

	client := &mockHHClient{}
	client.On("EmployerExists", mock.Anything, 404).Return(false).Once()
	client.On("EmployerExists", mock.Anything, 1122462).Return(true).Once()
	client.On("GetVacanciesByEmployer", mock.Anything, 1122462).Return(skyengItems, nil).Twice()
	client.On("GetEmployer", mock.Anything, 1122462).Return(skyeng, nil).Twice()

	employers := &mockEmployers{}
	employers.On("Save", mock.Anything, models.Employer{
		EmployerID:    1122462,
		EmployerName:  "Skyeng",
		EmployerURL:   "https://hh.ru/employer/1122462",
		OpenVacancies: 3,
	}).Return(nil).Twice()

	vacancies := &mockVacancies{}
	vacancies.On("SaveAll", mock.Anything, mock.MatchedBy(func(v []models.Vacancy) bool {
		return len(v) == 2
	})).Return(int64(2), nil).Once()
	vacancies.On("SaveAll", mock.Anything, mock.Anything).Return(int64(0), nil).Once()

	bus := EventBus.New()
	var published []events.EmployerIngested
	require.NoError(t, bus.Subscribe(events.EmployerIngestedTopic, func(event events.EmployerIngested) {
		published = append(published, event)
	}))

	ingester := NewIngester(bus, client, employers, vacancies)
	report := ingester.Run(context.Background(), slices.Values([]int{-5, 404, 1122462, 1122462}))

	assert.Equal(t, IngestReport{Processed: 4, Skipped: 2, Failed: 0, Vacancies: 2}, report)
	assert.Equal(t, []events.EmployerIngested{
		{EmployerID: 1122462, EmployerName: "Skyeng", Vacancies: 2},
		{EmployerID: 1122462, EmployerName: "Skyeng", Vacancies: 0},
	}, published)

	client.AssertExpectations(t)
	client.AssertNotCalled(t, "EmployerExists", mock.Anything, 0)
	employers.AssertExpectations(t)
	vacancies.AssertExpectations(t)
}

func Test_Ingester_Run_FailedEmployerIsSkipped(t *testing.T) {

	client := &mockHHClient{}
	client.On("EmployerExists", mock.Anything, mock.Anything).Return(true)
	client.On("GetVacanciesByEmployer", mock.Anything, 1).
		Return([]hh.VacancyItem(nil), &hh.StatusError{StatusCode: 500}).Once()
	client.On("GetVacanciesByEmployer", mock.Anything, 2).Return(skyengItems[:1], nil).Once()
	client.On("GetEmployer", mock.Anything, 2).Return(hh.Employer{ID: "2", Name: "Second"}, nil).Once()

	employers := &mockEmployers{}
	employers.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

	vacancies := &mockVacancies{}
	vacancies.On("SaveAll", mock.Anything, mock.Anything).Return(int64(1), nil).Once()

	report := NewIngester(EventBus.New(), client, employers, vacancies).
		Run(context.Background(), slices.Values([]int{1, 2}))

	assert.Equal(t, IngestReport{Processed: 2, Failed: 1, Vacancies: 1}, report)
	client.AssertNotCalled(t, "GetEmployer", mock.Anything, 1)
	employers.AssertExpectations(t)
}

func Test_Ingester_IngestEmployer_StoreErrorIsReturned(t *testing.T) {

	client := &mockHHClient{}
	client.On("GetVacanciesByEmployer", mock.Anything, 1122462).Return(skyengItems, nil)
	client.On("GetEmployer", mock.Anything, 1122462).Return(skyeng, nil)

	employers := &mockEmployers{}
	employers.On("Save", mock.Anything, mock.Anything).Return(errors.New("database is locked"))

	vacancies := &mockVacancies{}

	_, err := NewIngester(EventBus.New(), client, employers, vacancies).IngestEmployer(context.Background(), 1122462)
	assert.EqualError(t, err, "database is locked")
	vacancies.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
}

func Test_Ingester_Run_StopsWhenCanceled(t *testing.T) {

	client := &mockHHClient{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := NewIngester(EventBus.New(), client, &mockEmployers{}, &mockVacancies{}).
		Run(ctx, slices.Values([]int{1, 2, 3}))

	assert.Equal(t, IngestReport{}, report)
	client.AssertNotCalled(t, "EmployerExists", mock.Anything, mock.Anything)
}

func Test_ToVacancies_KeepsOnlyDisclosedSalaries(t *testing.T) {

	items := append(slices.Clone(skyengItems), hh.VacancyItem{ID: "abc", Salary: &hh.Salary{From: lo.ToPtr(1)}})

	assert.Equal(t, []models.Vacancy{
		{VacancyID: 10, EmployerID: 7, VacancyName: "Golang developer", Salary: lo.ToPtr(300000), VacancyURL: "https://hh.ru/vacancy/10"},
		{VacancyID: 11, EmployerID: 7, VacancyName: "QA engineer", Salary: lo.ToPtr(150000), VacancyURL: "https://hh.ru/vacancy/11"},
	}, toVacancies(7, items))
}

func Test_ToEmployer_InvalidID(t *testing.T) {
	_, err := toEmployer(hh.Employer{ID: "not-a-number"})
	assert.Error(t, err)
}

func Test_Ingester_Run_StoresIntoDatabase(t *testing.T) {

	dbCtx, err := repositories.NewDbContext(repositories.DialectSqlite, filepath.Join(t.TempDir(), "ingest.db"), nil)
	require.NoError(t, err)
	defer dbCtx.Close()
	require.NoError(t, dbCtx.Migrate())

	client := &mockHHClient{}
	client.On("EmployerExists", mock.Anything, 1122462).Return(true)
	client.On("GetVacanciesByEmployer", mock.Anything, 1122462).Return(skyengItems, nil)
	client.On("GetEmployer", mock.Anything, 1122462).Return(skyeng, nil)

	ingester := NewIngester(EventBus.New(), client,
		repositories.NewEmployersRepository(dbCtx.DB), repositories.NewVacanciesRepository(dbCtx.DB))

	report := ingester.Run(context.Background(), slices.Values([]int{1122462}))
	assert.Equal(t, IngestReport{Processed: 1, Vacancies: 2}, report)

	var stored []models.Vacancy
	require.NoError(t, dbCtx.DB.Order("vacancy_id").Find(&stored).Error)
	assert.Equal(t, []int{10, 11}, lo.Map(stored, func(v models.Vacancy, _ int) int { return v.VacancyID }))
	assert.Equal(t, 1122462, stored[0].EmployerID)
}
