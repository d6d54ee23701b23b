package api

import (
	"net/http"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectAmendmentExists(mock sqlmock.Sqlmock, id int64, exists bool) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM amendments WHERE amendment_id = ?")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

func TestHandleCreateLink(t *testing.T) {
	r, mock := newTestRouter(t)

	expectAmendmentExists(mock, 7, true)
	expectAmendmentExists(mock, 9, true)
	mock.ExpectQuery(regexp.QuoteMeta("FROM amendment_links WHERE amendment_id = ? AND linked_amendment_id = ?")).
		WithArgs(int64(7), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO amendment_links (")).
		WithArgs(int64(7), int64(9), "Blocks", nil, testNow).
		WillReturnResult(sqlmock.NewResult(3, 1))

	body := `{"linked_amendment_id":9,"link_type":"Blocks"}`
	w := doRequest(r, http.MethodPost, "/api/amendments/7/links", body)
	require.Equal(t, http.StatusCreated, w.Code)

	data := dataObject(t, w)
	assert.EqualValues(t, 3, data["amendment_link_id"])
	assert.Equal(t, "outgoing", data["direction"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleCreateLink_SelfLink(t *testing.T) {
	r, mock := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/amendments/7/links", `{"linked_amendment_id":7}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "amend:validation_failed", errorCode(t, w))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleCreateLink_UnknownTarget(t *testing.T) {
	r, mock := newTestRouter(t)

	expectAmendmentExists(mock, 7, true)
	expectAmendmentExists(mock, 999, false)

	w := doRequest(r, http.MethodPost, "/api/amendments/7/links", `{"linked_amendment_id":999}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "amend:not_found", errorCode(t, w))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleCreateLink_Duplicate(t *testing.T) {
	r, mock := newTestRouter(t)

	expectAmendmentExists(mock, 7, true)
	expectAmendmentExists(mock, 9, true)
	mock.ExpectQuery(regexp.QuoteMeta("FROM amendment_links WHERE amendment_id = ? AND linked_amendment_id = ?")).
		WithArgs(int64(7), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	w := doRequest(r, http.MethodPost, "/api/amendments/7/links", `{"linked_amendment_id":9}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "amend:conflict", errorCode(t, w))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleListLinks(t *testing.T) {
	r, mock := newTestRouter(t)

	expectAmendmentExists(mock, 7, true)
	mock.ExpectQuery(regexp.QuoteMeta("UNION ALL")).
		WithArgs(int64(7), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"amendment_link_id", "amendment_id", "linked_amendment_id", "link_type",
			"created_by", "created_on", "direction", "linked_reference", "linked_description",
		}).AddRow(
			int64(3), int64(7), int64(9), "Blocks",
			nil, testNow, "outgoing", "AMD-20241219-002", "Export fails",
		))

	w := doRequest(r, http.MethodGet, "/api/amendments/7/links", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := dataObject(t, w)
	items, ok := data["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)

	link, ok := items[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "outgoing", link["direction"])
	assert.Equal(t, "AMD-20241219-002", link["linked_reference"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleDeleteLink(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM amendment_links WHERE amendment_link_id = ?")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := doRequest(r, http.MethodDelete, "/api/amendments/links/3", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleDeleteLink_NotFound(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM amendment_links WHERE amendment_link_id = ?")).
		WithArgs(int64(44)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := doRequest(r, http.MethodDelete, "/api/amendments/links/44", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "amend:not_found", errorCode(t, w))
}
