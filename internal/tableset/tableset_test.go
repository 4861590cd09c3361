package tableset_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adqlcore/internal/tableset"
	"adqlcore/internal/types"
)

const basicDoc = `<?xml version="1.0"?>
<tableset>
  <schema>
    <name>public</name>
    <title>Public schema</title>
    <table>
      <name>public.star</name>
      <description>
        A catalog of stars.

        Second paragraph.
      </description>
      <column>
        <name>id</name>
        <dataType xsi:type="vs:TAPType">BIGINT</dataType>
        <flag>primary</flag>
        <flag>std</flag>
      </column>
      <column>
        <name>ra</name>
        <dataType xsi:type="vs:VOTableType">double</dataType>
        <flag>indexed</flag>
      </column>
    </table>
    <table>
      <name>public.obs</name>
      <column>
        <name>star_id</name>
        <dataType xsi:type="vs:TAPType">BIGINT</dataType>
      </column>
      <foreignKey>
        <targetTable>public.star</targetTable>
        <fkColumn>
          <fromColumn>star_id</fromColumn>
          <targetColumn>id</targetColumn>
        </fkColumn>
      </foreignKey>
    </table>
  </schema>
</tableset>`

func TestIngestBasicCatalog(t *testing.T) {
	cat, err := tableset.NewIngester(strings.NewReader(basicDoc)).Ingest()
	require.NoError(t, err)
	require.Len(t, cat.Schemas, 1)

	schema := cat.Schemas[0]
	assert.Equal(t, "public", schema.Identifier.ADQLName())
	require.Len(t, schema.Tables, 2)

	star := schema.Tables[0]
	assert.Equal(t, "star", star.Identifier.ADQLName(), "schema prefix should be simplified away")
	assert.Contains(t, star.Description, "A catalog of stars.")
	assert.Contains(t, star.Description, "Second paragraph.")

	id := star.FindColumn("id", false)
	require.NotNil(t, id)
	assert.Equal(t, types.BIGINT, id.Datatype.Kind)
	assert.True(t, id.Principal)
	assert.True(t, id.Std)

	ra := star.FindColumn("ra", false)
	require.NotNil(t, ra)
	assert.Equal(t, types.DOUBLE, ra.Datatype.Kind)
	assert.True(t, ra.Indexed)

	obs := schema.Tables[1]
	require.Len(t, obs.ForeignKeys(), 1)
	fk := obs.ForeignKeys()[0]
	assert.Equal(t, star, fk.TargetTable)
	assert.Equal(t, [][2]string{{"star_id", "id"}}, fk.Mapping())
}

const missingNameDoc = `<tableset>
  <schema>
    <name>s</name>
    <table>
      <column>
        <name>x</name>
      </column>
    </table>
  </schema>
</tableset>`

func TestIngestReportsMissingTableName(t *testing.T) {
	_, err := tableset.NewIngester(strings.NewReader(missingNameDoc)).Ingest()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table: missing required <name>")
}

const ambiguousFKDoc = `<tableset>
  <schema>
    <name>s1</name>
    <table><name>t</name><column><name>c</name></column></table>
  </schema>
  <schema>
    <name>s2</name>
    <table><name>t</name><column><name>c</name></column></table>
  </schema>
  <schema>
    <name>s3</name>
    <table>
      <name>owner</name>
      <column><name>fk_c</name></column>
      <foreignKey>
        <targetTable>t</targetTable>
        <fkColumn>
          <fromColumn>fk_c</fromColumn>
          <targetColumn>c</targetColumn>
        </fkColumn>
      </foreignKey>
    </table>
  </schema>
</tableset>`

func TestIngestAmbiguousForeignKeyTarget(t *testing.T) {
	_, err := tableset.NewIngester(strings.NewReader(ambiguousFKDoc)).Ingest()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}

const qualifiedFKDoc = `<tableset>
  <schema>
    <name>s1</name>
    <table><name>t</name><column><name>c</name></column></table>
  </schema>
  <schema>
    <name>s2</name>
    <table><name>t</name><column><name>c</name></column></table>
  </schema>
  <schema>
    <name>s3</name>
    <table>
      <name>owner</name>
      <column><name>fk_c</name></column>
      <foreignKey>
        <targetTable>s2.t</targetTable>
        <fkColumn>
          <fromColumn>fk_c</fromColumn>
          <targetColumn>c</targetColumn>
        </fkColumn>
      </foreignKey>
    </table>
  </schema>
</tableset>`

func TestIngestSchemaQualifiedForeignKeyTarget(t *testing.T) {
	cat, err := tableset.NewIngester(strings.NewReader(qualifiedFKDoc)).Ingest()
	require.NoError(t, err)

	owner := cat.Schemas[2].Tables[0]
	require.Len(t, owner.ForeignKeys(), 1)
	assert.Equal(t, cat.Schemas[1].Tables[0], owner.ForeignKeys()[0].TargetTable)
}

const unrecognizedDataTypeDoc = `<tableset>
  <schema>
    <name>s</name>
    <table>
      <name>t</name>
      <column>
        <name>c</name>
        <dataType xsi:type="vs:TAPType">NOTATYPE</dataType>
      </column>
    </table>
  </schema>
</tableset>`

func TestIngestReportsUnrecognizedDataTypeName(t *testing.T) {
	_, err := tableset.NewIngester(strings.NewReader(unrecognizedDataTypeDoc)).Ingest()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized")
}

const columnWithoutDataTypeDoc = `<tableset>
  <schema>
    <name>s</name>
    <table>
      <name>t</name>
      <column><name>c</name></column>
    </table>
  </schema>
</tableset>`

func TestIngestColumnWithoutDataTypeDefaultsToUnknown(t *testing.T) {
	cat, err := tableset.NewIngester(strings.NewReader(columnWithoutDataTypeDoc)).Ingest()
	require.NoError(t, err)
	c := cat.Schemas[0].Tables[0].FindColumn("c", false)
	require.NotNil(t, c)
	assert.Equal(t, types.UNKNOWN, c.Datatype.Kind)
}
