package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"report_handler/internal/codec"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReportService is a mock implementation of ReportServiceInterface
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) SubmitBatch(reportType string, body []byte) (*ReportTask, error) {
	args := m.Called(reportType, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ReportTask), args.Error(1)
}

func (m *MockReportService) GetTaskStatus(reportType, taskID string) (*ReportTask, []*GeneratedReport, error) {
	args := m.Called(reportType, taskID)
	var task *ReportTask
	if args.Get(0) != nil {
		task = args.Get(0).(*ReportTask)
	}
	var reports []*GeneratedReport
	if args.Get(1) != nil {
		reports = args.Get(1).([]*GeneratedReport)
	}
	return task, reports, args.Error(2)
}

func (m *MockReportService) GetReportContent(taskID string, reportID uuid.UUID) (*GeneratedReport, []byte, error) {
	args := m.Called(taskID, reportID)
	var rpt *GeneratedReport
	if args.Get(0) != nil {
		rpt = args.Get(0).(*GeneratedReport)
	}
	var raw []byte
	if args.Get(1) != nil {
		raw = args.Get(1).([]byte)
	}
	return rpt, raw, args.Error(2)
}

func (m *MockReportService) ListTasks(status, reportType string) ([]*ReportTask, error) {
	args := m.Called(status, reportType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ReportTask), args.Error(1)
}

func (m *MockReportService) RevokeTask(taskID string) (*ReportTask, error) {
	args := m.Called(taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ReportTask), args.Error(1)
}

func (m *MockReportService) DeleteTask(taskID string) error {
	args := m.Called(taskID)
	return args.Error(0)
}

const testTaskID = "b3c3e63e-8b94-4677-9a3e-9a53afc0ac9f"

// setupTestRouter creates a test router with mocked service
func setupTestRouter(service ReportServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	controller := NewReportController(service)

	router.POST("/:report_type", controller.SubmitReport)
	router.GET("/:report_type/:task_id", controller.GetReportStatus)
	router.GET("/reports/:task_id/:report_id", controller.GetReportContent)
	router.GET("/tasks", controller.ListTasks)
	router.POST("/tasks/:task_id/revoke", controller.RevokeTask)
	router.DELETE("/tasks/:task_id", controller.DeleteTask)

	return router
}

func taskWithStatus(status, reportType string) *ReportTask {
	taskID := testTaskID
	return &ReportTask{
		PK:         1,
		TaskID:     &taskID,
		Status:     status,
		ReportType: reportType,
		CreatedAt:  time.Date(2024, 7, 21, 3, 0, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2024, 7, 21, 3, 5, 0, 0, time.UTC),
	}
}

func TestSubmitReport_Accepted(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	mockService.On("SubmitBatch", TypeHTML, mock.Anything).Return(taskWithStatus(StatusPending, TypeHTML), nil)

	reqBody := `[{"namespace": "school-a", "student_id": "student-1", "events": [{"type": "saved_code", "created_time": "2024-07-21T03:04:55Z", "unit": 1}]}]`
	req := httptest.NewRequest("POST", "/html", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, testTaskID, response["task_id"])
	assert.Equal(t, StatusPending, response["status"])
	assert.Equal(t, "http://example.com/html/"+testTaskID, response["status_url"])
	assert.Equal(t, response["status_url"], w.Header().Get("Location"))

	mockService.AssertExpectations(t)
}

func TestSubmitReport_InvalidReportType(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	req := httptest.NewRequest("POST", "/docx", strings.NewReader(`[]`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Invalid report_type. Must be one of: html, pdf.", response["error"])

	mockService.AssertNotCalled(t, "SubmitBatch", mock.Anything, mock.Anything)
}

func TestSubmitReport_ValidationError(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	verr := &ValidationError{Details: []FieldError{
		{Field: "0", Message: "namespace is required"},
	}}
	mockService.On("SubmitBatch", TypeHTML, mock.Anything).Return(nil, verr)

	req := httptest.NewRequest("POST", "/html", strings.NewReader(`[{"student_id": "student-1"}]`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Invalid data format", response["error"])

	details, ok := response["details"].([]interface{})
	require.True(t, ok)
	require.Len(t, details, 1)

	first, ok := details[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "namespace is required", first["message"])

	mockService.AssertExpectations(t)
}

func TestSubmitReport_ServiceError(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	mockService.On("SubmitBatch", TypePDF, mock.Anything).Return(nil, errors.New("failed to publish job"))

	req := httptest.NewRequest("POST", "/pdf", strings.NewReader(`[]`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Failed to create report task", response["error"])
	assert.Contains(t, response["details"], "failed to publish job")

	mockService.AssertExpectations(t)
}

func TestGetReportStatus_InProgress(t *testing.T) {
	cases := []struct {
		status  string
		message string
	}{
		{StatusPending, "Report generation is pending. Please check back later."},
		{StatusStarted, "Report generation is started. Please check back later."},
		{StatusRetry, "Report generation is retry. Please check back later."},
	}

	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			mockService := new(MockReportService)
			router := setupTestRouter(mockService)

			mockService.On("GetTaskStatus", TypeHTML, testTaskID).
				Return(taskWithStatus(tc.status, TypeHTML), nil, nil)

			req := httptest.NewRequest("GET", "/html/"+testTaskID, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusAccepted, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			require.NoError(t, err)

			assert.Equal(t, tc.status, response["status"])
			assert.Equal(t, tc.message, response["message"])

			mockService.AssertExpectations(t)
		})
	}
}

func TestGetReportStatus_Failure(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	task := taskWithStatus(StatusFailure, TypeHTML)
	errMsg := "All report generations failed."
	task.ErrorMessage = &errMsg
	mockService.On("GetTaskStatus", TypeHTML, testTaskID).Return(task, nil, nil)

	req := httptest.NewRequest("GET", "/html/"+testTaskID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, StatusFailure, response["status"])
	assert.Equal(t, errMsg, response["error"])

	mockService.AssertExpectations(t)
}

func TestGetReportStatus_Revoked(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	mockService.On("GetTaskStatus", TypeHTML, testTaskID).
		Return(taskWithStatus(StatusRevoked, TypeHTML), nil, nil)

	req := httptest.NewRequest("GET", "/html/"+testTaskID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusGone, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Task was revoked", response["message"])

	mockService.AssertExpectations(t)
}

func TestGetReportStatus_SuccessWithoutReports(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	mockService.On("GetTaskStatus", TypeHTML, testTaskID).
		Return(taskWithStatus(StatusSuccess, TypeHTML), []*GeneratedReport{}, nil)

	req := httptest.NewRequest("GET", "/html/"+testTaskID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "No reports found even though task completed successfully.", response["error"])

	mockService.AssertExpectations(t)
}

func TestGetReportStatus_SuccessWithReports(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	firstID := uuid.MustParse("0d7f9a1e-34cd-4a43-a2a4-1f1b6f6ad1a1")
	secondID := uuid.MustParse("bb5f5a42-3c86-4b0e-9256-6a53a46cf0ba")
	reports := []*GeneratedReport{
		{
			ID:          firstID,
			StudentID:   "student-2",
			Namespace:   "school-a",
			ContentType: TypeHTML,
			GeneratedAt: time.Date(2024, 7, 21, 3, 5, 0, 0, time.UTC),
			FileSize:    512,
		},
		{
			ID:          secondID,
			StudentID:   "student-1",
			Namespace:   "school-a",
			ContentType: TypeHTML,
			GeneratedAt: time.Date(2024, 7, 21, 3, 4, 0, 0, time.UTC),
			FileSize:    498,
		},
	}
	mockService.On("GetTaskStatus", TypeHTML, testTaskID).
		Return(taskWithStatus(StatusSuccess, TypeHTML), reports, nil)

	req := httptest.NewRequest("GET", "/html/"+testTaskID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, response["status"])
	assert.Equal(t, testTaskID, response["task_id"])
	assert.Equal(t, TypeHTML, response["report_type"])
	assert.Equal(t, float64(2), response["report_count"])

	items, ok := response["reports"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 2)

	first, ok := items[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, firstID.String(), first["id"])
	assert.Equal(t, "student-2", first["student_id"])
	assert.Equal(t, "school-a", first["namespace"])
	assert.Equal(t, fmt.Sprintf("http://example.com/reports/%s/%s", testTaskID, firstID), first["url"])

	mockService.AssertExpectations(t)
}

func TestGetReportStatus_InvalidID(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	mockService.On("GetTaskStatus", TypeHTML, "not-a-task").Return(nil, nil, ErrTaskNotFound)

	req := httptest.NewRequest("GET", "/html/not-a-task", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Contains(t, response["error"], "Task not found")

	mockService.AssertExpectations(t)
}

func TestGetReportStatus_InvalidReportType(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	req := httptest.NewRequest("GET", "/docx/"+testTaskID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Invalid report_type. Must be one of: html, pdf.", response["error"])

	mockService.AssertNotCalled(t, "GetTaskStatus", mock.Anything, mock.Anything)
}

func TestGetReportContent_HTML(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	reportID := uuid.MustParse("0d7f9a1e-34cd-4a43-a2a4-1f1b6f6ad1a1")
	rpt := &GeneratedReport{
		ID:          reportID,
		StudentID:   "student-1",
		Namespace:   "school-a",
		ContentType: TypeHTML,
	}
	raw := []byte("<!DOCTYPE html><html><body>report</body></html>")
	mockService.On("GetReportContent", testTaskID, reportID).Return(rpt, raw, nil)

	req := httptest.NewRequest("GET", fmt.Sprintf("/reports/%s/%s", testTaskID, reportID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html", w.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="Report-student-1.html"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, raw, w.Body.Bytes())

	mockService.AssertExpectations(t)
}

func TestGetReportContent_PDF(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	reportID := uuid.MustParse("bb5f5a42-3c86-4b0e-9256-6a53a46cf0ba")
	rpt := &GeneratedReport{
		ID:          reportID,
		StudentID:   "student-7",
		Namespace:   "school-b",
		ContentType: TypePDF,
	}
	raw := []byte("%PDF-1.3 fake pdf bytes")
	mockService.On("GetReportContent", testTaskID, reportID).Return(rpt, raw, nil)

	req := httptest.NewRequest("GET", fmt.Sprintf("/reports/%s/%s", testTaskID, reportID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="Report-student-7.pdf"`, w.Header().Get("Content-Disposition"))

	mockService.AssertExpectations(t)
}

func TestGetReportContent_MalformedReportID(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	req := httptest.NewRequest("GET", "/reports/"+testTaskID+"/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Contains(t, response["error"], "Report not found")

	mockService.AssertNotCalled(t, "GetReportContent", mock.Anything, mock.Anything)
}

func TestGetReportContent_NotFound(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	reportID := uuid.MustParse("0d7f9a1e-34cd-4a43-a2a4-1f1b6f6ad1a1")
	mockService.On("GetReportContent", testTaskID, reportID).Return(nil, nil, ErrReportNotFound)

	req := httptest.NewRequest("GET", fmt.Sprintf("/reports/%s/%s", testTaskID, reportID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	mockService.AssertExpectations(t)
}

func TestGetReportContent_DecompressionError(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	reportID := uuid.MustParse("0d7f9a1e-34cd-4a43-a2a4-1f1b6f6ad1a1")
	derr := &codec.DecompressionError{Cause: errors.New("zlib: invalid header")}
	mockService.On("GetReportContent", testTaskID, reportID).Return(nil, nil, derr)

	req := httptest.NewRequest("GET", fmt.Sprintf("/reports/%s/%s", testTaskID, reportID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Failed to decompress report content: zlib: invalid header", response["error"])

	mockService.AssertExpectations(t)
}

func TestGetReportContent_InvalidUTF8HTML(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	reportID := uuid.MustParse("0d7f9a1e-34cd-4a43-a2a4-1f1b6f6ad1a1")
	rpt := &GeneratedReport{
		ID:          reportID,
		StudentID:   "student-1",
		ContentType: TypeHTML,
	}
	mockService.On("GetReportContent", testTaskID, reportID).Return(rpt, []byte{0xff, 0xfe, 0xfd}, nil)

	req := httptest.NewRequest("GET", fmt.Sprintf("/reports/%s/%s", testTaskID, reportID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Failed to decode HTML content: invalid UTF-8 sequence", response["error"])

	mockService.AssertExpectations(t)
}

func TestGetReportContent_UnsupportedStoredType(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	reportID := uuid.MustParse("0d7f9a1e-34cd-4a43-a2a4-1f1b6f6ad1a1")
	rpt := &GeneratedReport{
		ID:          reportID,
		StudentID:   "student-1",
		ContentType: "docx",
	}
	mockService.On("GetReportContent", testTaskID, reportID).Return(rpt, []byte("data"), nil)

	req := httptest.NewRequest("GET", fmt.Sprintf("/reports/%s/%s", testTaskID, reportID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Unsupported report type: docx", response["error"])

	mockService.AssertExpectations(t)
}

func TestListTasks_Success(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	tasks := []*ReportTask{
		taskWithStatus(StatusSuccess, TypeHTML),
		taskWithStatus(StatusPending, TypePDF),
	}
	mockService.On("ListTasks", "", "").Return(tasks, nil)

	req := httptest.NewRequest("GET", "/tasks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	items, ok := response["tasks"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2)
	assert.Equal(t, float64(2), response["count"])

	mockService.AssertExpectations(t)
}

func TestListTasks_Filtered(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	mockService.On("ListTasks", "SUCCESS", "html").Return([]*ReportTask{}, nil)

	req := httptest.NewRequest("GET", "/tasks?status=SUCCESS&report_type=html", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(0), response["count"])

	mockService.AssertExpectations(t)
}

func TestRevokeTask_Success(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	mockService.On("RevokeTask", testTaskID).Return(taskWithStatus(StatusRevoked, TypeHTML), nil)

	req := httptest.NewRequest("POST", "/tasks/"+testTaskID+"/revoke", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, testTaskID, response["task_id"])
	assert.Equal(t, StatusRevoked, response["status"])
	assert.Equal(t, "Task was revoked", response["message"])

	mockService.AssertExpectations(t)
}

func TestRevokeTask_Conflict(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	mockService.On("RevokeTask", testTaskID).Return(taskWithStatus(StatusSuccess, TypeHTML), ErrTaskNotRevocable)

	req := httptest.NewRequest("POST", "/tasks/"+testTaskID+"/revoke", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Contains(t, response["error"], "cannot be revoked")
	assert.Equal(t, StatusSuccess, response["status"])

	mockService.AssertExpectations(t)
}

func TestRevokeTask_NotFound(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	mockService.On("RevokeTask", testTaskID).Return(nil, ErrTaskNotFound)

	req := httptest.NewRequest("POST", "/tasks/"+testTaskID+"/revoke", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	mockService.AssertExpectations(t)
}

func TestDeleteTask_Success(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	mockService.On("DeleteTask", testTaskID).Return(nil)

	req := httptest.NewRequest("DELETE", "/tasks/"+testTaskID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, testTaskID, response["task_id"])
	assert.Equal(t, "Task deleted", response["message"])

	mockService.AssertExpectations(t)
}

func TestDeleteTask_NotFound(t *testing.T) {
	mockService := new(MockReportService)
	router := setupTestRouter(mockService)

	mockService.On("DeleteTask", testTaskID).Return(ErrTaskNotFound)

	req := httptest.NewRequest("DELETE", "/tasks/"+testTaskID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	mockService.AssertExpectations(t)
}
